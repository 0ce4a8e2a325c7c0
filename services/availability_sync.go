package services

import (
	"log"

	"homerental-server/models"
	"homerental-server/storage"
	"homerental-server/utils"

	"gorm.io/gorm"
)

// AvailabilitySyncService translates booking-state changes into availability
// record mutations. The booking's own state is the source of truth: every
// write here is best effort, failures are logged and reported as a bool, and
// they must never fail the booking mutation that triggered them. Readers
// defend against lag with live booking lookups (see routes/availability.go).
type AvailabilitySyncService struct{}

func NewAvailabilitySyncService() *AvailabilitySyncService {
	return &AvailabilitySyncService{}
}

// UpsertBookingRange returns ranges with exactly one entry tagged with the
// booking's ID, covering the preferred date's whole calendar day. An existing
// entry for the booking is replaced in place, so re-approving a booking (or
// approving after the preferred date was edited) never duplicates ranges.
func UpsertBookingRange(ranges []models.UnavailableRange, booking *models.Booking) []models.UnavailableRange {
	id := booking.ID
	entry := models.UnavailableRange{
		StartDate: utils.StartOfDay(booking.PreferredDate),
		EndDate:   utils.EndOfDay(booking.PreferredDate),
		Reason:    models.UnavailableReasonBooking,
		BookingID: &id,
		Notes:     "Booked for viewing by " + booking.Name,
	}

	for i, r := range ranges {
		if r.BookingID != nil && *r.BookingID == booking.ID {
			ranges[i] = entry
			return ranges
		}
	}
	return append(ranges, entry)
}

// RemoveBookingRange strips every range tagged with the booking ID. The
// second return reports whether anything was removed.
func RemoveBookingRange(ranges []models.UnavailableRange, bookingID uint) ([]models.UnavailableRange, bool) {
	kept := ranges[:0]
	removed := false
	for _, r := range ranges {
		if r.BookingID != nil && *r.BookingID == bookingID {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}

// loadOrCreateAvailability fetches the listing's calendar, creating it lazily
// on first access.
func loadOrCreateAvailability(listingID uint) (*models.Availability, error) {
	var avail models.Availability
	err := storage.DB.Where("listing_id = ?", listingID).First(&avail).Error
	if err == nil {
		return &avail, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	avail = models.Availability{
		ListingID: listingID,
		Status:    models.AvailabilityStatusAvailable,
	}
	if err := storage.DB.Create(&avail).Error; err != nil {
		return nil, err
	}
	return &avail, nil
}

// SyncBookingApproval materializes the booking's preferred date as an
// unavailable range on the listing's calendar. Only approved bookings mutate
// anything; any other status is a successful no-op.
func (s *AvailabilitySyncService) SyncBookingApproval(booking *models.Booking) bool {
	if booking.Status != models.BookingStatusApproved {
		return true
	}

	avail, err := loadOrCreateAvailability(booking.ListingID)
	if err != nil {
		log.Printf("availability sync: load failed for listing %d: %v", booking.ListingID, err)
		return false
	}

	avail.UnavailableRanges = UpsertBookingRange(avail.UnavailableRanges, booking)

	if err := storage.DB.Save(avail).Error; err != nil {
		log.Printf("availability sync: save failed for listing %d (booking %d): %v", booking.ListingID, booking.ID, err)
		return false
	}
	return true
}

// ReleaseBookingDates removes the booking's tagged range so the date opens up
// again. A listing with no calendar, or a calendar with no matching range,
// counts as success: there is nothing to undo. Orphaned booking IDs from
// legacy hard deletes are tolerated the same way.
func (s *AvailabilitySyncService) ReleaseBookingDates(booking *models.Booking) bool {
	var avail models.Availability
	err := storage.DB.Where("listing_id = ?", booking.ListingID).First(&avail).Error
	if err == gorm.ErrRecordNotFound {
		return true
	}
	if err != nil {
		log.Printf("availability sync: load failed for listing %d: %v", booking.ListingID, err)
		return false
	}

	ranges, removed := RemoveBookingRange(avail.UnavailableRanges, booking.ID)
	if !removed {
		return true
	}
	avail.UnavailableRanges = ranges

	if err := storage.DB.Save(&avail).Error; err != nil {
		log.Printf("availability sync: save failed for listing %d (booking %d): %v", booking.ListingID, booking.ID, err)
		return false
	}
	return true
}

// ReconcileListing rebuilds all booking-tagged ranges from the live set of
// approved, non-deleted bookings. It is the repair entry point for drift left
// behind by failed best-effort syncs; landlord-entered ranges (maintenance,
// other) are preserved untouched.
func (s *AvailabilitySyncService) ReconcileListing(listingID uint) error {
	avail, err := loadOrCreateAvailability(listingID)
	if err != nil {
		return err
	}

	var approved []models.Booking
	if err := storage.DB.Scopes(models.VisibleBookings).
		Where("listing_id = ? AND status = ?", listingID, models.BookingStatusApproved).
		Find(&approved).Error; err != nil {
		return err
	}

	rebuilt := make([]models.UnavailableRange, 0, len(avail.UnavailableRanges))
	for _, r := range avail.UnavailableRanges {
		if r.Reason != models.UnavailableReasonBooking {
			rebuilt = append(rebuilt, r)
		}
	}
	avail.UnavailableRanges = rebuilt
	for i := range approved {
		avail.UnavailableRanges = UpsertBookingRange(avail.UnavailableRanges, &approved[i])
	}

	return storage.DB.Save(avail).Error
}
