package routes

import (
	"encoding/json"

	"homerental-server/models"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Moving-service worker profiles

type WorkerProfileInput struct {
	FullName    string   `json:"fullName" validate:"required,max=256"`
	Contact     string   `json:"contact" validate:"required,max=64"`
	Address     string   `json:"address" validate:"max=512"`
	Skills      []string `json:"skills"`
	VehicleType string   `json:"vehicleType" validate:"omitempty,oneof=pickup mini_truck truck none"`
	RatePerHour float32  `json:"ratePerHour" validate:"gte=0"`
	Experience  int      `json:"experience" validate:"gte=0,lte=60"`
	IsAvailable *bool    `json:"isAvailable"`
}

// CreateOrUpdateWorkerProfile upserts the caller's worker profile. One profile
// per user; posting again overwrites the existing one.
func CreateOrUpdateWorkerProfile(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input WorkerProfileInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	skills := input.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, _ := json.Marshal(skills)

	var worker models.Worker
	err := storage.DB.Where("user_id = ?", claims.ID).First(&worker).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		utils.CreateInternalServerError(ctx)
		return
	}

	isNew := err == gorm.ErrRecordNotFound

	worker.UserID = claims.ID
	worker.FullName = input.FullName
	worker.Contact = input.Contact
	worker.Address = input.Address
	worker.Skills = skillsJSON
	worker.VehicleType = input.VehicleType
	worker.RatePerHour = input.RatePerHour
	worker.Experience = input.Experience
	worker.IsAvailable = input.IsAvailable

	if err := storage.DB.Save(&worker).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if isNew {
		ctx.StatusCode(iris.StatusCreated)
	}
	ctx.JSON(&worker)
}

func GetWorker(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var worker models.Worker
	exists := storage.DB.Preload("User").Find(&worker, id)

	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(&worker)
}

// GetAvailableWorkers lists worker profiles open for new shifting jobs.
func GetAvailableWorkers(ctx iris.Context) {
	var workers []models.Worker
	res := storage.DB.Preload("User").
		Where("is_available IS NULL OR is_available = true").
		Order("rating DESC").
		Find(&workers)

	if res.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(workers)
}

func DeleteWorkerProfile(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var worker models.Worker
	exists := storage.DB.Where("user_id = ?", claims.ID).Find(&worker)
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&worker).Error; err != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
