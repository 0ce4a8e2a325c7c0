package routes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homerental-server/models"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func CreateListing(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	imagesArr := insertImages(InsertImages{images: input.Images})
	if imagesArr == nil {
		imagesArr = []string{}
	}
	imagesJSON, _ := json.Marshal(imagesArr)

	currency := input.Currency
	if currency == "" {
		currency = "NPR"
	}

	listing := models.Listing{
		UserID:       claims.ID,
		Title:        input.Title,
		Description:  input.Description,
		ListingType:  input.ListingType,
		PropertyType: input.PropertyType,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		District:     input.District,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Kitchens:     input.Kitchens,
		Floors:       input.Floors,
		Area:         input.Area,
		Price:        input.Price,
		Currency:     currency,
		Amenities:    string(amenitiesJSON),
		Images:       string(imagesJSON),
		IsActive:     input.IsActive,
		Status:       "pending",
	}

	if err := storage.DB.Create(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(listing)
}

func GetListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingAndOwnerByID(id, ctx)
	if listing == nil {
		return
	}

	ctx.JSON(listing)
}

// GetListingWithAvailability returns a listing together with its availability
// summary for the calling user. The booking flags come from live booking rows,
// not the cached calendar, so the payload stays correct even when the
// best-effort sync lagged.
func GetListingWithAvailability(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	listing := getListingAndOwnerByID(id, ctx)
	if listing == nil {
		return
	}

	summary := listingAvailabilitySummary(listing.ID, claims.ID)

	ctx.JSON(iris.Map{
		"listing":      listing,
		"availability": summary,
	})
}

// listingAvailabilitySummary computes the projection shown on listing cards
// and detail screens. It is derived entirely from live booking rows, never
// from the cached calendar, so the payload stays correct even when the
// best-effort sync lagged.
func listingAvailabilitySummary(listingID uint, userID uint) iris.Map {
	today := utils.StartOfDay(time.Now())

	var approved []models.Booking
	storage.DB.Scopes(models.VisibleBookings).
		Where("listing_id = ? AND status = ? AND preferred_date >= ?",
			listingID, models.BookingStatusApproved, today).
		Order("preferred_date ASC").
		Find(&approved)

	var own *models.Booking
	if userID > 0 {
		var b models.Booking
		err := storage.DB.Scopes(models.VisibleBookings).
			Where("listing_id = ? AND user_id = ?", listingID, userID).
			Order("created_at DESC").
			First(&b).Error
		if err == nil {
			own = &b
		}
	}

	return summarizeListingBookings(approved, own, today)
}

// summarizeListingBookings builds the summary payload from the upcoming
// approved bookings (ascending by preferred date) and the caller's latest
// booking. bookedUntil is the soonest upcoming approved viewing; the listing
// counts as available today when no approved viewing lands on today.
func summarizeListingBookings(approved []models.Booking, own *models.Booking, today time.Time) iris.Map {
	isBooked := len(approved) > 0
	var bookedUntil *string
	if isBooked {
		formatted := approved[0].PreferredDate.Format(utils.DateOnlyLayout)
		bookedUntil = &formatted
	}

	isAvailable := true
	for _, b := range approved {
		if models.SameCalendarDay(b.PreferredDate, today) {
			isAvailable = false
			break
		}
	}

	hasUserBooked := own != nil
	userBookingStatus := ""
	if own != nil {
		userBookingStatus = own.Status
	}

	return iris.Map{
		"isAvailable":       isAvailable,
		"isBooked":          isBooked,
		"bookedUntil":       bookedUntil,
		"hasUserBooked":     hasUserBooked,
		"userBookingStatus": userBookingStatus,
	}
}

func GetListingsByUserID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listings []models.Listing
	res := storage.DB.Where("user_id = ?", id).Order("created_at DESC").Find(&listings)

	if res.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(listings)
}

type SearchListingsInput struct {
	City         string  `json:"city"`
	District     string  `json:"district"`
	ListingType  string  `json:"listingType" validate:"omitempty,oneof=rent sale"`
	PropertyType string  `json:"propertyType"`
	MinPrice     float32 `json:"minPrice"`
	MaxPrice     float32 `json:"maxPrice"`
	Bedrooms     int     `json:"bedrooms"`
}

// SearchListings filters approved, active listings. Only moderated listings
// surface in search; a landlord still sees their own pending listings through
// GetListingsByUserID.
func SearchListings(ctx iris.Context) {
	var input SearchListingsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	query := storage.DB.Preload("Owner").
		Where("status = ? AND (is_active IS NULL OR is_active = true)", "approved")

	if input.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", input.City)
	}
	if input.District != "" {
		query = query.Where("LOWER(district) = LOWER(?)", input.District)
	}
	if input.ListingType != "" {
		query = query.Where("listing_type = ?", input.ListingType)
	}
	if input.PropertyType != "" {
		query = query.Where("property_type = ?", input.PropertyType)
	}
	if input.MinPrice > 0 {
		query = query.Where("price >= ?", input.MinPrice)
	}
	if input.MaxPrice > 0 {
		query = query.Where("price <= ?", input.MaxPrice)
	}
	if input.Bedrooms > 0 {
		query = query.Where("bedrooms >= ?", input.Bedrooms)
	}

	var listings []models.Listing
	if err := query.Order("created_at DESC").Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

type BoundingBoxInput struct {
	LatLow  float32 `json:"latLow" validate:"required"`
	LatHigh float32 `json:"latHigh" validate:"required"`
	LngLow  float32 `json:"lngLow" validate:"required"`
	LngHigh float32 `json:"lngHigh" validate:"required"`
}

func GetListingsByBoundingBox(ctx iris.Context) {
	var boundingBox BoundingBoxInput
	if err := ctx.ReadJSON(&boundingBox); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var listings []models.Listing
	result := storage.DB.Preload("Owner").
		Where("lat >= ? AND lat <= ? AND lng >= ? AND lng <= ? AND (is_active IS NULL OR is_active = true) AND status = ?",
			boundingBox.LatLow, boundingBox.LatHigh, boundingBox.LngLow, boundingBox.LngHigh, "approved").
		Order("created_at DESC").
		Find(&listings)

	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

func UpdateListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	listing := getListingAndOwnerByID(id, ctx)
	if listing == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if listing.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities, _ := json.Marshal(input.Amenities)

	imagesArr := insertImages(InsertImages{
		images:    input.Images,
		listingID: strconv.FormatUint(uint64(listing.ID), 10),
	})
	imagesJSON, _ := json.Marshal(imagesArr)

	listing.Title = input.Title
	listing.Description = input.Description
	listing.ListingType = input.ListingType
	listing.PropertyType = input.PropertyType
	listing.AddressLine1 = input.AddressLine1
	listing.AddressLine2 = input.AddressLine2
	listing.City = input.City
	listing.District = input.District
	listing.Country = input.Country
	listing.Lat = input.Lat
	listing.Lng = input.Lng
	listing.Bedrooms = input.Bedrooms
	listing.Bathrooms = input.Bathrooms
	listing.Kitchens = input.Kitchens
	listing.Floors = input.Floors
	listing.Area = input.Area
	listing.Price = input.Price
	listing.Currency = input.Currency
	listing.Amenities = string(amenities)
	listing.Images = string(imagesJSON)
	listing.IsActive = input.IsActive

	if err := storage.DB.Model(listing).Updates(listing).Error; err != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", err.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func DeleteListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	exists := storage.DB.Find(&listing, id)
	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)

	if listing.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&models.Listing{}, id).Error; err != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", err.Error(), ctx)
		return
	}

	// A removed listing takes its calendar and bookings with it
	storage.DB.Where("listing_id = ?", id).Delete(&models.Availability{})
	storage.DB.Where("listing_id = ?", id).Delete(&models.Booking{})

	ctx.StatusCode(iris.StatusNoContent)
}

// DeleteListingImage removes a single image from a listing
func DeleteListingImage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	listingIDStr := ctx.URLParam("listingID")
	imageURL := ctx.URLParam("imageURL")

	if listingIDStr == "" || imageURL == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "listingID and imageURL are required", ctx)
		return
	}

	listingID, err := strconv.ParseUint(listingIDStr, 10, 32)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid listingID", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.Where("id = ? AND user_id = ?", listingID, userID).First(&listing).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found or not owned by user", ctx)
		return
	}

	var images []string
	if listing.Images != "" {
		if err := json.Unmarshal([]byte(listing.Images), &images); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	imageIndex := -1
	for i, img := range images {
		if img == imageURL {
			imageIndex = i
			break
		}
	}

	if imageIndex == -1 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Image not found in listing", ctx)
		return
	}

	images = append(images[:imageIndex], images[imageIndex+1:]...)

	imagesJSON, _ := json.Marshal(images)
	listing.Images = string(imagesJSON)

	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	deleted := storage.DeleteImage(imageURL)
	ctx.JSON(iris.Map{
		"message":           "Image removed from listing",
		"cloudinaryDeleted": deleted,
	})
}

func getListingAndOwnerByID(id string, ctx iris.Context) *models.Listing {
	var listing models.Listing
	exists := storage.DB.Preload("Owner").Find(&listing, id)

	if exists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}

	if exists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}

	return &listing
}

func insertImages(arg InsertImages) []string {
	var imagesArr []string
	for i, image := range arg.images {
		if image == "" {
			continue
		}
		if strings.Contains(image, "res.cloudinary.com") {
			imagesArr = append(imagesArr, image)
			continue
		}

		timestamp := time.Now().UnixNano() / int64(time.Millisecond)
		publicID := fmt.Sprintf("listing_%d_%d", timestamp, i)
		if arg.listingID != "" {
			publicID = "listing/" + arg.listingID + "/" + publicID
		}

		urlMap := storage.UploadBase64Image(image, publicID)
		if urlMap != nil && urlMap["url"] != "" {
			imagesArr = append(imagesArr, urlMap["url"])
		}
	}
	return imagesArr
}

type InsertImages struct {
	images    []string
	listingID string
}

type CreateListingInput struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description"`
	ListingType  string   `json:"listingType" validate:"required,oneof=rent sale"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=house apartment room flat"`
	AddressLine1 string   `json:"addressLine1" validate:"required,max=512"`
	AddressLine2 string   `json:"addressLine2" validate:"max=512"`
	City         string   `json:"city" validate:"required,max=256"`
	District     string   `json:"district" validate:"max=256"`
	Country      string   `json:"country" validate:"max=128"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    float32  `json:"bathrooms" validate:"gte=0,lte=20"`
	Kitchens     int      `json:"kitchens" validate:"gte=0,lte=10"`
	Floors       int      `json:"floors" validate:"gte=0,lte=50"`
	Area         float32  `json:"area" validate:"gte=0"`
	Price        float32  `json:"price" validate:"required,gte=0"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	IsActive     *bool    `json:"isActive"`
}

type UpdateListingInput struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description"`
	ListingType  string   `json:"listingType" validate:"required,oneof=rent sale"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=house apartment room flat"`
	AddressLine1 string   `json:"addressLine1" validate:"required,max=512"`
	AddressLine2 string   `json:"addressLine2" validate:"max=512"`
	City         string   `json:"city" validate:"required,max=256"`
	District     string   `json:"district" validate:"max=256"`
	Country      string   `json:"country" validate:"max=128"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    float32  `json:"bathrooms" validate:"gte=0,lte=20"`
	Kitchens     int      `json:"kitchens" validate:"gte=0,lte=10"`
	Floors       int      `json:"floors" validate:"gte=0,lte=50"`
	Area         float32  `json:"area" validate:"gte=0"`
	Price        float32  `json:"price" validate:"required,gte=0"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	IsActive     *bool    `json:"isActive"`
}
