package models

import (
	"time"

	"gorm.io/gorm"
)

// Availability statuses
const (
	AvailabilityStatusAvailable   = "available"
	AvailabilityStatusTempClosed  = "temporarily_unavailable"
	AvailabilityStatusPermaClosed = "permanently_unavailable"
)

// Unavailable range reasons
const (
	UnavailableReasonBooking     = "booking"
	UnavailableReasonMaintenance = "maintenance"
	UnavailableReasonOther       = "other"
)

// NextAvailableSearchDays bounds the forward scan for the next open date.
const NextAvailableSearchDays = 365

// UnavailableRange is a closed date interval during which a listing cannot be
// booked. Ranges created by the booking synchronizer carry the booking ID so
// they can be replaced or removed when the booking changes.
type UnavailableRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
	BookingID *uint     `json:"bookingID,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// AvailabilityException overrides the weekly pattern for one calendar date.
type AvailabilityException struct {
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"isAvailable"`
	Note        string    `json:"note,omitempty"`
}

// WeeklyPattern is an opt-in recurring schedule supplied by the landlord:
// one flag per weekday plus date-specific exceptions that win over the flags.
type WeeklyPattern struct {
	Enabled    bool                    `json:"enabled"`
	Sunday     bool                    `json:"sunday"`
	Monday     bool                    `json:"monday"`
	Tuesday    bool                    `json:"tuesday"`
	Wednesday  bool                    `json:"wednesday"`
	Thursday   bool                    `json:"thursday"`
	Friday     bool                    `json:"friday"`
	Saturday   bool                    `json:"saturday"`
	Exceptions []AvailabilityException `json:"exceptions,omitempty"`
}

// ForWeekday returns the flag for the given weekday.
func (p *WeeklyPattern) ForWeekday(d time.Weekday) bool {
	switch d {
	case time.Sunday:
		return p.Sunday
	case time.Monday:
		return p.Monday
	case time.Tuesday:
		return p.Tuesday
	case time.Wednesday:
		return p.Wednesday
	case time.Thursday:
		return p.Thursday
	case time.Friday:
		return p.Friday
	default:
		return p.Saturday
	}
}

// Availability is the per-listing booking calendar. One record per listing,
// created lazily the first time availability is read or written.
type Availability struct {
	ID                 uint               `json:"ID" gorm:"primaryKey"`
	ListingID          uint               `json:"listingID" gorm:"uniqueIndex;not null"`
	UnavailableRanges  []UnavailableRange `json:"unavailableRanges" gorm:"serializer:json"`
	CustomAvailability *WeeklyPattern     `json:"customAvailability,omitempty" gorm:"serializer:json"`
	Status             string             `json:"status" gorm:"type:varchar(30);default:available"`
	AvailableFrom      *time.Time         `json:"availableFrom,omitempty"`
	NextAvailableDate  *time.Time         `json:"nextAvailableDate,omitempty"`
	LastUpdated        time.Time          `json:"lastUpdated"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	Listing            Listing            `json:"-" gorm:"foreignKey:ListingID"`
}

// SameCalendarDay compares two timestamps ignoring time of day.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsAvailableOn decides whether the listing can be booked on the given date.
// Range bounds are inclusive on both ends; weekly-pattern exceptions are
// matched by calendar date and win over the weekday flag.
func (a *Availability) IsAvailableOn(date time.Time) bool {
	if a.Status != AvailabilityStatusAvailable {
		return false
	}

	if a.AvailableFrom != nil && date.Before(*a.AvailableFrom) && !SameCalendarDay(date, *a.AvailableFrom) {
		return false
	}

	for _, r := range a.UnavailableRanges {
		inStart := date.After(r.StartDate) || SameCalendarDay(date, r.StartDate)
		inEnd := date.Before(r.EndDate) || SameCalendarDay(date, r.EndDate)
		if inStart && inEnd {
			return false
		}
	}

	if a.CustomAvailability != nil && a.CustomAvailability.Enabled {
		for _, ex := range a.CustomAvailability.Exceptions {
			if SameCalendarDay(ex.Date, date) {
				return ex.IsAvailable
			}
		}
		if !a.CustomAvailability.ForWeekday(date.Weekday()) {
			return false
		}
	}

	return true
}

// NextAvailableFrom scans forward one day at a time, starting at fromDate (or
// AvailableFrom if that is later), and returns the first open date within the
// 365-day horizon. Returns nil for permanently unavailable listings and when
// the horizon is exhausted.
func (a *Availability) NextAvailableFrom(fromDate time.Time) *time.Time {
	if a.Status == AvailabilityStatusPermaClosed {
		return nil
	}

	start := fromDate
	if a.AvailableFrom != nil && a.AvailableFrom.After(start) {
		start = *a.AvailableFrom
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for i := 0; i < NextAvailableSearchDays; i++ {
		if a.IsAvailableOn(day) {
			return &day
		}
		day = day.AddDate(0, 0, 1)
	}
	return nil
}

// Recompute refreshes the derived fields. NextAvailableDate is a cache of the
// forward scan at save time, not a source of truth; it goes stale between
// saves and readers must not rely on it alone.
func (a *Availability) Recompute(now time.Time) {
	a.NextAvailableDate = a.NextAvailableFrom(now)
	a.LastUpdated = now
}

// BeforeSave keeps the derived cache consistent on every persisted write.
func (a *Availability) BeforeSave(tx *gorm.DB) error {
	a.Recompute(time.Now())
	return nil
}
