package routes

import (
	"net/http"
	"strings"

	"homerental-server/models"
	"homerental-server/services"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
)

// Admin moderation endpoints. Every mutation here goes through utils.Audit.

func adminPagination(ctx iris.Context) (page, perPage int) {
	page = ctx.URLParamIntDefault("page", 1)
	if page <= 0 {
		page = 1
	}
	perPage = ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}
	return page, perPage
}

func AdminListUsers(ctx iris.Context) {
	page, perPage := adminPagination(ctx)

	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminChangeUserRole — super_admin only, enforced by route middleware.
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Role != models.RoleUser && body.Role != models.RoleLandlord && body.Role != models.RoleAdmin && body.Role != models.RoleSuperAdmin) {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "role must be user/landlord/admin/super_admin")
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "user not found")
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "user.change_role", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"data": iris.Map{"user": &user}})
}

func AdminListListings(ctx iris.Context) {
	page, perPage := adminPagination(ctx)

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))
	flagged := ctx.URLParamDefault("flagged", "")

	query := storage.DB.Model(&models.Listing{}).Preload("Owner")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if flagged == "true" {
		query = query.Where("is_flagged = ?", true)
	}

	var total int64
	query.Count(&total)

	var listings []models.Listing
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&listings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, listings, page, perPage, total)
}

// AdminUpdateListingStatus approves or rejects a listing and notifies the
// landlord.
func AdminUpdateListingStatus(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Status string `json:"status"` // pending/approved/rejected
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil ||
		(body.Status != "pending" && body.Status != "approved" && body.Status != "rejected") {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "status must be pending/approved/rejected")
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
		return
	}

	before := listing
	listing.Status = body.Status
	if body.Status == "rejected" {
		listing.FlagReason = body.Reason
	}
	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	title := "Listing Updated"
	switch body.Status {
	case "approved":
		title = "Listing Approved"
	case "rejected":
		title = "Listing Rejected"
	}

	notification := models.Notification{
		UserID:  listing.UserID,
		Title:   title,
		Message: "Your listing '" + listing.Title + "' is now " + body.Status,
		Type:    "listing_status",
		RefID:   listing.ID,
		RefType: "listing",
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendListingStatusToLandlord(listing.ID, listing.UserID, listing.Title, body.Status)

	utils.Audit(ctx, "listing.moderate", "listing", listing.ID, before, listing)
	ctx.JSON(iris.Map{"data": iris.Map{"listing": &listing}})
}

// AdminFlagListing toggles the abuse flag on a listing.
func AdminFlagListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var body struct {
		Flagged *bool  `json:"flagged"`
		Reason  string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Flagged == nil {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "flagged is required")
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
		return
	}

	before := listing
	listing.IsFlagged = *body.Flagged
	listing.FlagReason = body.Reason
	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "listing.flag", "listing", listing.ID, before, listing)
	ctx.JSON(iris.Map{"data": iris.Map{"listing": &listing}})
}

func AdminListBookings(ctx iris.Context) {
	page, perPage := adminPagination(ctx)

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))

	scope := models.VisibleBookings
	if ctx.URLParamBoolDefault("includeDeleted", false) {
		scope = models.AllBookings
	}

	query := storage.DB.Model(&models.Booking{}).Scopes(scope).Preload("Listing").Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&bookings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, bookings, page, perPage, total)
}

// AdminHardDeleteBooking removes a booking row permanently. The tagged
// availability range is released first so no orphaned range survives the
// delete; a failed release aborts the purge.
func AdminHardDeleteBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var booking models.Booking
	if err := storage.DB.Scopes(models.AllBookings).First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}

	syncService := services.NewAvailabilitySyncService()
	if !syncService.ReleaseBookingDates(&booking) {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", "failed to release availability before delete")
		return
	}

	if err := storage.DB.Delete(&models.Booking{}, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.Audit(ctx, "booking.hard_delete", "booking", booking.ID, booking, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func AdminListPayments(ctx iris.Context) {
	page, perPage := adminPagination(ctx)

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))

	query := storage.DB.Model(&models.Payment{}).Preload("User").Preload("Listing")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var payments []models.Payment
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&payments).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, payments, page, perPage, total)
}

// AdminReconcileAvailability rebuilds a listing's booking-tagged ranges from
// the live approved bookings. Repair tool for drift left by failed
// best-effort syncs.
func AdminReconcileAvailability(ctx iris.Context) {
	listingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var listing models.Listing
	if err := storage.DB.First(&listing, listingID).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
		return
	}

	syncService := services.NewAvailabilitySyncService()
	if err := syncService.ReconcileListing(listingID); err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	var avail models.Availability
	storage.DB.Where("listing_id = ?", listingID).First(&avail)

	utils.Audit(ctx, "availability.reconcile", "availability", avail.ID, nil, avail)
	ctx.JSON(iris.Map{"data": iris.Map{"availability": avail}})
}

func AdminListAuditLogs(ctx iris.Context) {
	page, perPage := adminPagination(ctx)

	query := storage.DB.Model(&models.AuditLog{})
	if rt := ctx.URLParamDefault("resource_type", ""); rt != "" {
		query = query.Where("resource_type = ?", rt)
	}

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&logs).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}
