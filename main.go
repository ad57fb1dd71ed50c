package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/tntanvir/eastmondvillas/routes"
	"github.com/tntanvir/eastmondvillas/storage"
	"github.com/tntanvir/eastmondvillas/utils"
)

func main() {
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the dashboard frontend
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

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
	}
	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	optionalAccessMiddleware := utils.OptionalAccessMiddleware(accessTokenVerifier)

	properties := app.Party("/api/properties")
	{
		properties.Get("/", optionalAccessMiddleware, routes.ListProperties)
		properties.Get("/{id:uint}", optionalAccessMiddleware, routes.GetProperty)
		properties.Post("/", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.CreateProperty)
		properties.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware, routes.DeleteProperty)
		properties.Post("/{id:uint}/downloaded", routes.PropertyDownloaded)
		properties.Get("/{id:uint}/availability", routes.GetPropertyAvailability)
	}

	bookings := app.Party("/api/bookings", accessTokenVerifierMiddleware)
	{
		bookings.Post("/", routes.CreateBooking)
		bookings.Get("/", routes.ListBookings)
		bookings.Get("/{id:uint}", routes.GetBooking)
		bookings.Patch("/{id:uint}/status", routes.UpdateBookingStatus)
	}

	inquiries := app.Party("/api/inquiries")
	{
		inquiries.Post("/", routes.CreateInquiry)
		inquiries.Get("/", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware, routes.ListInquiries)
	}

	dashboard := app.Party("/api/dashboard", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware)
	{
		dashboard.Get("/", routes.GetDashboard)
		dashboard.Get("/agents", utils.ManagerOnlyMiddleware, routes.GetAgentPerformance)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
