package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = time.Hour

type Claims struct {
	UserID uint
	Role   string
}

func GenerateJWT(secret string, userID uint, role string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseJWT validates an HS256 token and extracts the user id and role.
func ParseJWT(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	out := &Claims{}
	switch id := claims["userId"].(type) {
	case float64: // numbers decode as float64 from JSON
		out.UserID = uint(id)
	case int64:
		out.UserID = uint(id)
	default:
		return nil, errors.New("userId claim missing")
	}
	out.Role, _ = claims["role"].(string)
	return out, nil
}
