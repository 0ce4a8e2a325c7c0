package routes

import (
	"time"

	"homerental-server/models"
	"homerental-server/services"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Shifting (moving-service) request endpoints. Same lifecycle as viewing
// bookings, minus the availability calendar: accepting a shifting request
// never blocks any listing dates.

type CreateShiftingRequestInput struct {
	Name               string `json:"name" validate:"required,max=256"`
	Contact            string `json:"contact" validate:"required,max=64"`
	CurrentAddress     string `json:"currentAddress" validate:"required,max=512"`
	DestinationAddress string `json:"destinationAddress" validate:"required,max=512"`
	ShiftingDate       string `json:"shiftingDate" validate:"required"`
	Note               string `json:"note" validate:"max=1024"`
	WorkerID           *uint  `json:"workerID"`
}

func CreateShiftingRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateShiftingRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	shiftingDate, dateErr := utils.ParseDateOnly(input.ShiftingDate)
	if dateErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "shiftingDate must be a valid YYYY-MM-DD date", ctx)
		return
	}

	if input.WorkerID != nil {
		var worker models.Worker
		if err := storage.DB.First(&worker, *input.WorkerID).Error; err != nil {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Worker not found", ctx)
			return
		}
	}

	request := models.ShiftingRequest{
		UserID:             claims.ID,
		WorkerID:           input.WorkerID,
		Name:               input.Name,
		Contact:            input.Contact,
		CurrentAddress:     input.CurrentAddress,
		DestinationAddress: input.DestinationAddress,
		ShiftingDate:       shiftingDate,
		Note:               input.Note,
		Status:             models.BookingStatusPending,
	}

	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

func GetUserShiftingRequests(ctx iris.Context) {
	id := ctx.Params().Get("id")

	scope := models.VisibleShiftingRequests
	if ctx.URLParamBoolDefault("includeDeleted", false) {
		scope = func(db *gorm.DB) *gorm.DB { return db }
	}

	var requests []models.ShiftingRequest
	res := storage.DB.Scopes(scope).
		Preload("Worker").
		Where("user_id = ?", id).
		Order("shifting_date ASC").
		Find(&requests)

	if res.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(requests)
}

// GetWorkerShiftingRequests lists requests assigned to the caller's worker
// profile plus the unassigned pool.
func GetWorkerShiftingRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var worker models.Worker
	if err := storage.DB.Where("user_id = ?", claims.ID).First(&worker).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Worker profile not found", ctx)
		return
	}

	var requests []models.ShiftingRequest
	res := storage.DB.Scopes(models.VisibleShiftingRequests).
		Preload("User").
		Where("worker_id = ? OR worker_id IS NULL", worker.ID).
		Order("shifting_date ASC").
		Find(&requests)

	if res.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(requests)
}

type UpdateShiftingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// UpdateShiftingStatus lets a worker accept or decline a request. Accepting an
// unassigned request claims it for the caller's worker profile.
func UpdateShiftingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateShiftingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var request models.ShiftingRequest
	if err := storage.DB.Scopes(models.VisibleShiftingRequests).First(&request, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Shifting request not found", ctx)
		return
	}

	if !utils.IsAdminRole(claims.Role) {
		var worker models.Worker
		if err := storage.DB.Where("user_id = ?", claims.ID).First(&worker).Error; err != nil {
			utils.CreateForbidden(ctx)
			return
		}
		if request.WorkerID != nil && *request.WorkerID != worker.ID {
			utils.CreateForbidden(ctx)
			return
		}
		if request.Status == models.BookingStatusPending && input.Status == models.BookingStatusApproved {
			workerID := worker.ID
			request.WorkerID = &workerID
		}
	}

	request.Status = input.Status

	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	notification := models.Notification{
		UserID:  request.UserID,
		Title:   "Shifting Request Updated",
		Message: "Your shifting request is now " + request.Status,
		Type:    "shifting_status",
		RefID:   request.ID,
		RefType: "shifting_request",
	}
	storage.DB.Create(&notification)

	notificationService := services.NewNotificationService()
	go notificationService.SendShiftingStatusToUser(request.ID, request.UserID, request.Status)

	ctx.JSON(&request)
}

// SoftDeleteShiftingRequest hides a request, recording which role removed it.
func SoftDeleteShiftingRequest(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var request models.ShiftingRequest
	if err := storage.DB.Scopes(models.VisibleShiftingRequests).First(&request, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Shifting request not found", ctx)
		return
	}

	var role string
	switch {
	case utils.IsAdminRole(claims.Role):
		role = models.DeletedByAdmin
	case request.UserID == claims.ID:
		role = models.DeletedByUser
	default:
		var worker models.Worker
		workerErr := storage.DB.Where("user_id = ?", claims.ID).First(&worker).Error
		if workerErr != nil || request.WorkerID == nil || *request.WorkerID != worker.ID {
			utils.CreateForbidden(ctx)
			return
		}
		role = models.DeletedByWorker
	}

	request.SoftDelete(role, time.Now())

	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message": "Shifting request deleted",
		"request": request,
	})
}

// RestoreShiftingRequest clears the soft-delete marker. Admins may restore
// anything; otherwise only the party that deleted the request may.
func RestoreShiftingRequest(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var request models.ShiftingRequest
	if err := storage.DB.Scopes(models.OnlyDeletedShiftingRequests).First(&request, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Deleted shifting request not found", ctx)
		return
	}

	allowed := utils.IsAdminRole(claims.Role)
	switch request.DeletedBy {
	case models.DeletedByUser:
		allowed = allowed || request.UserID == claims.ID
	case models.DeletedByWorker:
		if request.WorkerID != nil {
			var worker models.Worker
			if err := storage.DB.Where("user_id = ?", claims.ID).First(&worker).Error; err == nil {
				allowed = allowed || *request.WorkerID == worker.ID
			}
		}
	}

	if !allowed {
		utils.CreateForbidden(ctx)
		return
	}

	request.Restore()

	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message": "Shifting request restored",
		"request": request,
	})
}
