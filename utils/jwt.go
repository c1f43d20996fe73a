package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"

	"connectify/config"
)

// ErrAdminSecretUnset reports that ADMIN_JWT_SECRET is not configured. The
// admin console fails closed rather than falling back to a known key.
var ErrAdminSecretUnset = errors.New("admin jwt secret is not configured")

func adminSecret() ([]byte, error) {
	secret := config.AppConfig.AdminJWTSecret
	if secret == "" {
		return nil, ErrAdminSecretUnset
	}
	return []byte(secret), nil
}

// GenerateAdminToken creates a signed JWT for the admin console.
// The token expires after the specified duration.
func GenerateAdminToken(subject string, duration time.Duration) (string, error) {
	secret, err := adminSecret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAdminToken parses and validates a token string and checks the admin role.
func ValidateAdminToken(tokenString string) error {
	secret, err := adminSecret()
	if err != nil {
		return err
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("token does not carry the admin role")
	}
	return nil
}
