package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fcreyes/gingereasy/routes"
	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeS3()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
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

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Get("/me", accessTokenVerifierMiddleware, routes.CurrentUser)
	}

	listings := app.Party("/api/listings")
	{
		listings.Get("/", routes.ListListings)
		listings.Get("/{id:uint}", routes.GetListing)
		listings.Post("/", accessTokenVerifierMiddleware, routes.CreateListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateListing)
		listings.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteListing)
	}

	app.Get("/api/neighborhoods", routes.GetNeighborhoods)
	app.Post("/api/upload", routes.UploadImage)
	app.Get("/api/images/{filename}", routes.GetImage)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
