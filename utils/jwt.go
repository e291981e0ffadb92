package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
)

// Load the secret from an environment variable. Fallback to a default (not recommended in production).
var secretKey = []byte(getSecret())

func getSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "adwuma-dev-secret"
	}
	return secret
}

// GenerateToken creates a signed JWT for the given actor id and role
// ("client", "provider" or "admin"). The token expires after the given duration.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
}

// ExtractActorFromToken returns the actor id (subject) and role carried by a
// valid token.
func ExtractActorFromToken(tokenString string) (string, string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)

	return sub, role, nil
}
