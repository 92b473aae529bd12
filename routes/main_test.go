package routes

import (
	"fmt"
	"os"
	"testing"

	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points storage.DB at a fresh in-memory sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Listing{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	storage.DB = db
}

// buildTestApp creates an Iris app with the API routes and JWT verifier,
// mirroring the wiring in main.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	setupTestDB(t)

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", Register)
		auth.Post("/login", Login)
		auth.Get("/me", accessTokenVerifierMiddleware, CurrentUser)
	}

	listings := app.Party("/api/listings")
	{
		listings.Get("/", ListListings)
		listings.Get("/{id:uint}", GetListing)
		listings.Post("/", accessTokenVerifierMiddleware, CreateListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, UpdateListing)
		listings.Delete("/{id:uint}", accessTokenVerifierMiddleware, DeleteListing)
	}

	app.Get("/api/neighborhoods", GetNeighborhoods)
	app.Post("/api/upload", UploadImage)

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

// createTestUser inserts a user and returns it with a signed access token.
func createTestUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	hashed, err := hashAndSaltPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Email:    username + "@example.com",
		Username: username,
		Password: hashed,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := utils.CreateAccessToken(&user)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return user, token
}
