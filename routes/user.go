package routes

import (
	"strings"

	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	emailTaken, emailErr := getAndHandleUserExists(&existing, "email", strings.ToLower(userInput.Email))
	if emailErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if emailTaken {
		utils.CreateError(iris.StatusBadRequest, "Registration Error", "Email already registered.", ctx)
		return
	}

	usernameTaken, usernameErr := getAndHandleUserExists(&existing, "username", userInput.Username)
	if usernameErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if usernameTaken {
		utils.CreateError(iris.StatusBadRequest, "Registration Error", "Username already taken.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		Email:    strings.ToLower(userInput.Email),
		Username: userInput.Username,
		Password: hashedPassword,
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(newUser)
}

// Login issues an access token for form-encoded username/password
// credentials (OAuth2 password flow shape).
func Login(ctx iris.Context) {
	username := ctx.FormValue("username")
	password := ctx.FormValue("password")

	if username == "" || password == "" {
		utils.CreateError(iris.StatusBadRequest, "Credentials Error", "Username and password are required.", ctx)
		return
	}

	errorMsg := "Incorrect username or password."

	var existingUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, "username", username)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	accessToken, tokenErr := utils.CreateAccessToken(&existingUser)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}

func CurrentUser(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	userExists := storage.DB.Find(&user, claims.ID)
	if userExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Could not validate credentials.", ctx)
		return
	}

	ctx.JSON(user)
}

func getAndHandleUserExists(user *models.User, column string, value string) (bool, error) {
	userExistsQuery := storage.DB.Where(column+" = ?", value).Limit(1).Find(user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	return userExistsQuery.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,max=256,email"`
	Username string `json:"username" validate:"required,max=256"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}
