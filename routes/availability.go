package routes

import (
	"time"

	"homerental-server/models"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Availability calendar endpoints

// getOrCreateAvailability lazily creates the calendar record on first access.
func getOrCreateAvailability(listingID uint) (*models.Availability, error) {
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

// GetAvailability returns the listing's calendar, creating it if absent.
func GetAvailability(ctx iris.Context) {
	listingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid listing ID", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	avail, availErr := getOrCreateAvailability(listingID)
	if availErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(avail)
}

type UnavailableRangeInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Reason    string    `json:"reason" validate:"required,oneof=maintenance other"`
	Notes     string    `json:"notes"`
}

type UpdateAvailabilityInput struct {
	Status             string                  `json:"status" validate:"omitempty,oneof=available temporarily_unavailable permanently_unavailable"`
	AvailableFrom      *time.Time              `json:"availableFrom"`
	UnavailableRanges  []UnavailableRangeInput `json:"unavailableRanges" validate:"dive"`
	CustomAvailability *models.WeeklyPattern   `json:"customAvailability"`
}

// applyAvailabilityInput merges a landlord edit into the stored calendar.
// Omitted status/availableFrom/customAvailability fields keep their stored
// values. Landlord-entered ranges replace previous landlord-entered ranges;
// ranges tagged with a booking ID belong to the synchronizer and are kept.
func applyAvailabilityInput(avail *models.Availability, input UpdateAvailabilityInput) {
	if input.Status != "" {
		avail.Status = input.Status
	}
	if input.AvailableFrom != nil {
		avail.AvailableFrom = input.AvailableFrom
	}
	if input.CustomAvailability != nil {
		avail.CustomAvailability = input.CustomAvailability
	}

	kept := make([]models.UnavailableRange, 0, len(avail.UnavailableRanges)+len(input.UnavailableRanges))
	for _, r := range avail.UnavailableRanges {
		if r.Reason == models.UnavailableReasonBooking {
			kept = append(kept, r)
		}
	}
	for _, r := range input.UnavailableRanges {
		kept = append(kept, models.UnavailableRange{
			StartDate: utils.StartOfDay(r.StartDate),
			EndDate:   utils.EndOfDay(r.EndDate),
			Reason:    r.Reason,
			Notes:     r.Notes,
		})
	}
	avail.UnavailableRanges = kept
}

// UpdateAvailability lets the landlord (or an admin) edit the calendar.
func UpdateAvailability(ctx iris.Context) {
	listingID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid listing ID", ctx)
		return
	}
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateAvailabilityInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	if listing.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	for _, r := range input.UnavailableRanges {
		if r.EndDate.Before(r.StartDate) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must not be before startDate", ctx)
			return
		}
	}

	avail, availErr := getOrCreateAvailability(listingID)
	if availErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	applyAvailabilityInput(avail, input)

	if err := storage.DB.Save(avail).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message":      "Availability updated successfully",
		"availability": avail,
	})
}

// CheckAvailability answers "is this listing free on date X". The engine's
// cached ranges are combined with a live approved-booking lookup because the
// booking synchronizer is fire-and-forget and may lag behind an approval.
func CheckAvailability(ctx iris.Context) {
	listingID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid listing ID", ctx)
		return
	}

	dateStr := ctx.URLParam("date")
	date := time.Now()
	if dateStr != "" {
		parsed, err := utils.ParseDateOnly(dateStr)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be a valid YYYY-MM-DD date", ctx)
			return
		}
		date = parsed
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	avail, availErr := getOrCreateAvailability(listingID)
	if availErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	dayStart := utils.StartOfDay(date)
	dayEnd := utils.EndOfDay(date)

	var bookings []models.Booking
	storage.DB.Scopes(models.VisibleBookings).
		Where("listing_id = ? AND status = ? AND preferred_date >= ? AND preferred_date <= ?",
			listingID, models.BookingStatusApproved, dayStart, dayEnd).
		Find(&bookings)

	hasBooking := len(bookings) > 0
	isAvailable := avail.IsAvailableOn(date) && !hasBooking

	ctx.JSON(iris.Map{
		"isAvailable": isAvailable,
		"hasBooking":  hasBooking,
		"bookings":    bookings,
	})
}

// collectUnavailableDates walks the window one day at a time and unions the
// dates the engine rejects with the dates holding approved bookings. Each day
// is emitted at most once, in ascending order.
func collectUnavailableDates(avail *models.Availability, bookingDates []time.Time, start, end time.Time) []time.Time {
	var out []time.Time
	for day := utils.StartOfDay(start); !day.After(end); day = day.AddDate(0, 0, 1) {
		if !avail.IsAvailableOn(day) {
			out = append(out, day)
			continue
		}
		for _, bd := range bookingDates {
			if models.SameCalendarDay(bd, day) {
				out = append(out, day)
				break
			}
		}
	}
	return out
}

// GetUnavailableDates enumerates blocked dates in a window, defaulting to the
// three months after the start date.
func GetUnavailableDates(ctx iris.Context) {
	listingID, paramErr := ctx.Params().GetUint("id")
	if paramErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid listing ID", ctx)
		return
	}

	start := utils.StartOfDay(time.Now())
	if s := ctx.URLParam("startDate"); s != "" {
		parsed, err := utils.ParseDateOnly(s)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be a valid YYYY-MM-DD date", ctx)
			return
		}
		start = parsed
	}

	end := start.AddDate(0, 3, 0)
	if e := ctx.URLParam("endDate"); e != "" {
		parsed, err := utils.ParseDateOnly(e)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must be a valid YYYY-MM-DD date", ctx)
			return
		}
		end = parsed
	}

	if end.Before(start) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "endDate must not be before startDate", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	avail, availErr := getOrCreateAvailability(listingID)
	if availErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var approved []models.Booking
	storage.DB.Scopes(models.VisibleBookings).
		Where("listing_id = ? AND status = ? AND preferred_date >= ? AND preferred_date <= ?",
			listingID, models.BookingStatusApproved, utils.StartOfDay(start), utils.EndOfDay(end)).
		Find(&approved)

	bookingDates := make([]time.Time, 0, len(approved))
	for _, b := range approved {
		bookingDates = append(bookingDates, b.PreferredDate)
	}

	dates := collectUnavailableDates(avail, bookingDates, start, end)

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format(utils.DateOnlyLayout))
	}

	ctx.JSON(iris.Map{
		"listingID":        listingID,
		"startDate":        start.Format(utils.DateOnlyLayout),
		"endDate":          end.Format(utils.DateOnlyLayout),
		"unavailableDates": formatted,
	})
}
