package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify a storefront user.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

// IssueToken signs an HS256 token for the user, valid for ttl.
func IssueToken(secret string, c Claims, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if c.UserID == "" {
		return "", errors.New("user id is required")
	}

	claims := jwt.MapClaims{
		"user_id": c.UserID,
		"sub":     c.UserID,
		"role":    "user",
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	if c.Email != "" {
		claims["email"] = c.Email
	}
	if c.Name != "" {
		claims["name"] = c.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
