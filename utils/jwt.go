package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"

	"github.com/golang-jwt/jwt"
)

func GenerateJWT(user models.User, hours int) (string, error) {
	var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * time.Duration(hours)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func DecodeJWT(tokenString string) (jwt.MapClaims, error) {
	return decodeWithSecret(tokenString, []byte(os.Getenv("JWT_SECRET")))
}

// DecodeSessionToken verifies a token minted by the external session
// provider (SSO gateway). Its claims carry the stable subject id and email.
func DecodeSessionToken(tokenString string) (jwt.MapClaims, error) {
	return decodeWithSecret(tokenString, []byte(os.Getenv("SESSION_JWT_SECRET")))
}

func decodeWithSecret(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid or expired token")
}
