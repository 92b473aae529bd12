package utils

import (
	"os"
	"time"

	"github.com/fcreyes/gingereasy/models"

	"github.com/kataras/iris/v12/middleware/jwt"
)

func CreateAccessToken(user *models.User) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)

	claims := AccessToken{
		ID:       user.ID,
		Username: user.Username,
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", err
	}

	return string(token), nil
}

type AccessToken struct {
	ID       uint   `json:"ID"`
	Username string `json:"username"`
}
