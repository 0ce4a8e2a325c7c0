package routes

import (
	"fmt"

	"homerental-server/models"
	"homerental-server/services"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// Payment endpoints against the external gateway. The gateway's lookup call
// is the only source of truth for a payment's final state; redirect query
// parameters from the client are never trusted.

type InitiatePaymentInput struct {
	Amount    int64  `json:"amount" validate:"required,gte=1000"` // paisa, min Rs 10
	ListingID *uint  `json:"listingID"`
	BookingID *uint  `json:"bookingID"`
	ReturnURL string `json:"returnURL" validate:"required,url"`
	Purpose   string `json:"purpose" validate:"max=128"`
}

func InitiatePayment(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input InitiatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	orderName := input.Purpose
	if orderName == "" {
		orderName = "Listing payment"
	}

	if input.ListingID != nil {
		var listing models.Listing
		if err := storage.DB.First(&listing, *input.ListingID).Error; err != nil {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
			return
		}
		orderName = listing.Title
	}
	if input.BookingID != nil {
		var booking models.Booking
		if err := storage.DB.Scopes(models.VisibleBookings).First(&booking, *input.BookingID).Error; err != nil {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
			return
		}
	}

	purchaseOrderID := fmt.Sprintf("order_%d_%s", claims.ID, utils.GenerateShortToken(8))

	gateway := services.NewPaymentGatewayService()
	initiated, err := gateway.Initiate(services.InitiatePaymentRequest{
		ReturnURL:         input.ReturnURL,
		WebsiteURL:        input.ReturnURL,
		Amount:            input.Amount,
		PurchaseOrderID:   purchaseOrderID,
		PurchaseOrderName: orderName,
		CustomerInfo: services.CustomerInfo{
			Name:  user.FirstName + " " + user.LastName,
			Email: user.Email,
			Phone: user.PhoneNumber,
		},
	})
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Payment Error", "Failed to initiate payment with the gateway", ctx)
		return
	}

	payment := models.Payment{
		UserID:            claims.ID,
		ListingID:         input.ListingID,
		BookingID:         input.BookingID,
		Amount:            input.Amount,
		Pidx:              initiated.Pidx,
		Status:            models.PaymentStatusInitiated,
		PurchaseOrderID:   purchaseOrderID,
		PurchaseOrderName: orderName,
		PaymentURL:        initiated.PaymentURL,
	}

	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"payment":    payment,
		"paymentURL": initiated.PaymentURL,
		"pidx":       initiated.Pidx,
	})
}

// VerifyPayment looks up a payment's authoritative state after the customer
// returns from the gateway and persists whatever the gateway reports.
func VerifyPayment(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	pidx := ctx.URLParam("pidx")
	if pidx == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "pidx is required", ctx)
		return
	}

	var payment models.Payment
	if err := storage.DB.Where("pidx = ?", pidx).First(&payment).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Payment not found", ctx)
		return
	}

	if payment.UserID != claims.ID && !utils.IsAdminRole(claims.Role) {
		utils.CreateForbidden(ctx)
		return
	}

	gateway := services.NewPaymentGatewayService()
	lookup, err := gateway.Lookup(pidx)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Payment Error", "Failed to verify payment with the gateway", ctx)
		return
	}

	applyLookup(&payment, lookup.Status, lookup.TransactionID, lookup.Fee)

	if err := storage.DB.Save(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if payment.Status == models.PaymentStatusCompleted {
		notification := models.Notification{
			UserID:  payment.UserID,
			Title:   "Payment Received",
			Message: fmt.Sprintf("Your payment of NPR %.2f was completed", float64(payment.Amount)/100),
			Type:    "payment_completed",
			RefID:   payment.ID,
			RefType: "payment",
		}
		storage.DB.Create(&notification)
	}

	ctx.JSON(&payment)
}

// PaymentWebhook handles the gateway's signed server-to-server callback.
// Unauthenticated; trust comes from the HS256 signature on the token.
func PaymentWebhook(ctx iris.Context) {
	var body struct {
		Token string `json:"token" validate:"required"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	gateway := services.NewPaymentGatewayService()
	claims, err := gateway.VerifyCallbackToken(body.Token)
	if err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid callback token", ctx)
		return
	}

	var payment models.Payment
	if err := storage.DB.Where("pidx = ?", claims.Pidx).First(&payment).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Payment not found", ctx)
		return
	}

	applyLookup(&payment, claims.Status, claims.TransactionID, payment.Fee)

	if err := storage.DB.Save(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"received": true})
}

// applyLookup maps the gateway's reported state onto the local record.
// Unknown statuses (e.g. "User canceled") land in Failed.
func applyLookup(payment *models.Payment, status, transactionID string, fee int64) {
	switch status {
	case models.PaymentStatusCompleted,
		models.PaymentStatusPending,
		models.PaymentStatusInitiated,
		models.PaymentStatusRefunded,
		models.PaymentStatusExpired:
		payment.Status = status
	default:
		payment.Status = models.PaymentStatusFailed
	}
	if transactionID != "" {
		payment.TransactionID = transactionID
	}
	if fee > 0 {
		payment.Fee = fee
	}
}

// GetUserPayments returns the caller's payment history.
func GetUserPayments(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var payments []models.Payment
	res := storage.DB.Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments)

	if res.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(payments)
}
