package routes

import (
	"time"

	"homerental-server/models"
	"homerental-server/services"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Viewing booking endpoints

type CreateBookingInput struct {
	Name          string `json:"name" validate:"required,max=256"`
	Address       string `json:"address" validate:"required,max=512"`
	Contact       string `json:"contact" validate:"required,max=64"`
	PreferredDate string `json:"preferredDate" validate:"required"`
}

// CreateBooking files a viewing request for a listing. No availability check
// happens here: overlapping pending requests are allowed and conflicts are
// resolved by the landlord at approval time.
func CreateBooking(ctx iris.Context) {
	listingID := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	preferredDate, dateErr := utils.ParseDateOnly(input.PreferredDate)
	if dateErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "preferredDate must be a valid YYYY-MM-DD date", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	booking := models.Booking{
		ListingID:     listing.ID,
		UserID:        claims.ID,
		Name:          input.Name,
		Address:       input.Address,
		Contact:       input.Contact,
		PreferredDate: preferredDate,
		Status:        models.BookingStatusPending,
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Listing").Preload("User").First(&booking, booking.ID)

	notification := models.Notification{
		UserID:  listing.UserID,
		Title:   "New Viewing Request",
		Message: input.Name + " requested a viewing for " + listing.Title,
		Type:    "booking_request",
		RefID:   booking.ID,
		RefType: "booking",
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendBookingRequestToLandlord(
		booking.ID, listing.ID, listing.UserID, claims.ID, input.Name, listing.Title)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

// GetUserBookings returns the authenticated renter's own bookings.
func GetUserBookings(ctx iris.Context) {
	id := ctx.Params().Get("id")

	scope := models.VisibleBookings
	if ctx.URLParamBoolDefault("includeDeleted", false) {
		scope = models.AllBookings
	}

	var bookings []models.Booking
	res := storage.DB.Scopes(scope).
		Preload("Listing").Preload("Listing.Owner").
		Where("user_id = ?", id).
		Order("preferred_date ASC").
		Find(&bookings)

	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetListingBookings returns all bookings for a listing; landlord or admin only.
func GetListingBookings(ctx iris.Context) {
	listingID := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	if listing.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	scope := models.VisibleBookings
	if ctx.URLParamBoolDefault("includeDeleted", false) {
		scope = models.AllBookings
	}

	var bookings []models.Booking
	res := storage.DB.Scopes(scope).
		Preload("User").
		Where("listing_id = ?", listingID).
		Order("preferred_date ASC").
		Find(&bookings)

	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// UpdateBookingStatus transitions a booking between pending/approved/rejected.
// Only the listing's landlord or an admin may decide; the renter cannot
// self-approve. The availability sync that follows an approval is best
// effort: the status change is committed and reported successful even when
// the calendar write fails, and the sync outcome is surfaced separately.
func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !models.IsValidBookingStatus(input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "status must be pending, approved or rejected", ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Listing").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	if booking.Listing.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	wasApproved := booking.Status == models.BookingStatusApproved
	booking.Status = input.Status

	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	syncService := services.NewAvailabilitySyncService()
	synced := true
	if booking.Status == models.BookingStatusApproved {
		synced = syncService.SyncBookingApproval(&booking)
	} else if wasApproved {
		// Rejection (or reset to pending) after an approval releases the date
		synced = syncService.ReleaseBookingDates(&booking)
	}

	notification := models.Notification{
		UserID:  booking.UserID,
		Title:   "Viewing Request Updated",
		Message: "Your viewing request for " + booking.Listing.Title + " is now " + booking.Status,
		Type:    "booking_status",
		RefID:   booking.ID,
		RefType: "booking",
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendBookingStatusToRenter(
		booking.ID, booking.ListingID, booking.UserID, booking.Listing.Title, booking.Status)

	ctx.JSON(iris.Map{
		"booking":          booking,
		"availabilitySync": synced,
	})
}

// SoftDeleteBooking hides a booking, recording which role removed it. The
// renter, the listing's landlord and admins may each do this; the booking's
// tagged availability range is released as a best-effort side effect.
func SoftDeleteBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var booking models.Booking
	if err := storage.DB.Scopes(models.VisibleBookings).Preload("Listing").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	var role string
	switch {
	case utils.IsAdminRole(claims.Role):
		role = models.DeletedByAdmin
	case booking.UserID == claims.ID:
		role = models.DeletedByUser
	case booking.Listing.UserID == claims.ID:
		role = models.DeletedByLandlord
	default:
		utils.CreateForbidden(ctx)
		return
	}

	booking.SoftDelete(role, time.Now())

	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	syncService := services.NewAvailabilitySyncService()
	synced := syncService.ReleaseBookingDates(&booking)

	ctx.JSON(iris.Map{
		"message":          "Booking deleted",
		"booking":          booking,
		"availabilitySync": synced,
	})
}

// RestoreBooking clears the soft-delete marker. Admins may restore anything;
// otherwise only the party that deleted the booking may bring it back.
// Restoring never re-occupies the preferred date, even for approved bookings.
func RestoreBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var booking models.Booking
	if err := storage.DB.Scopes(models.OnlyDeletedBookings).Preload("Listing").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Deleted booking not found", ctx)
		return
	}

	allowed := utils.IsAdminRole(claims.Role)
	switch booking.DeletedBy {
	case models.DeletedByUser:
		allowed = allowed || booking.UserID == claims.ID
	case models.DeletedByLandlord:
		allowed = allowed || booking.Listing.UserID == claims.ID
	}

	if !allowed {
		utils.CreateForbidden(ctx)
		return
	}

	booking.Restore()

	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message": "Booking restored",
		"booking": booking,
	})
}
