package main

import (
	"os"

	"homerental-server/routes"
	"homerental-server/storage"
	"homerental-server/utils"

	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = utils.Validate

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Post("/become-landlord", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.BecomeLandlord)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Get("/{id}/listings/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserSavedListings)
		user.Patch("/{id}/listings/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserSavedListings)
		user.Patch("/{id}/pushtoken", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterPushToken)
		user.Patch("/{id}/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AllowsNotifications)
	}

	listing := app.Party("/api/listing")
	{
		listing.Post("/", accessTokenVerifierMiddleware, routes.CreateListing)
		listing.Post("/search", routes.SearchListings)
		listing.Post("/search/bounds", routes.GetListingsByBoundingBox)
		listing.Get("/{id}", routes.GetListing)
		listing.Get("/{id}/full", accessTokenVerifierMiddleware, routes.GetListingWithAvailability)
		listing.Get("/userid/{id}", routes.GetListingsByUserID)
		listing.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listing.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteListing)
		listing.Delete("/image/remove", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteListingImage)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/listing/{id}", accessTokenVerifierMiddleware, routes.CreateBooking)
		booking.Get("/user/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
		booking.Get("/listing/{id}", accessTokenVerifierMiddleware, routes.GetListingBookings)
		booking.Patch("/{id}/status", accessTokenVerifierMiddleware, routes.UpdateBookingStatus)
		booking.Delete("/{id}", accessTokenVerifierMiddleware, routes.SoftDeleteBooking)
		booking.Post("/{id}/restore", accessTokenVerifierMiddleware, routes.RestoreBooking)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/listing/{id:uint}", routes.GetAvailability)
		availability.Put("/listing/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateAvailability)
		availability.Get("/listing/{id:uint}/check", routes.CheckAvailability)
		availability.Get("/listing/{id:uint}/unavailable-dates", routes.GetUnavailableDates)
	}

	worker := app.Party("/api/worker")
	{
		worker.Post("/", accessTokenVerifierMiddleware, routes.CreateOrUpdateWorkerProfile)
		worker.Get("/available", routes.GetAvailableWorkers)
		worker.Get("/{id}", routes.GetWorker)
		worker.Delete("/", accessTokenVerifierMiddleware, routes.DeleteWorkerProfile)
	}

	shifting := app.Party("/api/shifting")
	{
		shifting.Post("/", accessTokenVerifierMiddleware, routes.CreateShiftingRequest)
		shifting.Get("/user/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserShiftingRequests)
		shifting.Get("/worker", accessTokenVerifierMiddleware, routes.GetWorkerShiftingRequests)
		shifting.Patch("/{id}/status", accessTokenVerifierMiddleware, routes.UpdateShiftingStatus)
		shifting.Delete("/{id}", accessTokenVerifierMiddleware, routes.SoftDeleteShiftingRequest)
		shifting.Post("/{id}/restore", accessTokenVerifierMiddleware, routes.RestoreShiftingRequest)
	}

	payment := app.Party("/api/payment")
	{
		payment.Post("/initiate", accessTokenVerifierMiddleware, routes.InitiatePayment)
		payment.Get("/verify", accessTokenVerifierMiddleware, routes.VerifyPayment)
		payment.Post("/webhook", routes.PaymentWebhook)
		payment.Get("/history", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserPayments)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetUserNotifications)
		notifications.Patch("/{id}/read", routes.MarkNotificationRead)
		notifications.Patch("/read-all", routes.MarkAllNotificationsRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/listings", routes.AdminListListings)
		admin.Patch("/listings/{id:uint}/status", routes.AdminUpdateListingStatus)
		admin.Post("/listings/{id:uint}/flag", routes.AdminFlagListing)
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Delete("/bookings/{id:uint}", routes.AdminHardDeleteBooking)
		admin.Get("/payments", routes.AdminListPayments)
		admin.Post("/availability/{id:uint}/reconcile", routes.AdminReconcileAvailability)
		admin.Get("/audit-logs", routes.AdminListAuditLogs)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	app.Listen(":" + port)
}
