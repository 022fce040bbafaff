package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/jimmbo89/api-sweetspot/pkg/config"
)

var cfg *config.JWTConfig

// UserClaims carries the public projection of an authenticated account.
// The person fields mirror the 1:1 profile linked to the user.
type UserClaims struct {
	UserID     uint   `json:"user_id"`
	Email      string `json:"email"`
	UserName   string `json:"user_name"`
	PersonID   uint   `json:"person_id"`
	PersonName string `json:"person_name"`
	jwt.RegisteredClaims
}

// Initialize sets the JWT configuration for the package
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a signed session token and returns the raw
// token string together with its expiry timestamp.
func GenerateToken(userID uint, email, userName string, personID uint, personName string) (string, time.Time, error) {
	if cfg == nil {
		return "", time.Time{}, errors.New("JWT configuration not provided")
	}

	expiresAt := time.Now().Add(time.Duration(cfg.ExpirationHours) * time.Hour)

	claims := UserClaims{
		UserID:     userID,
		Email:      email,
		UserName:   userName,
		PersonID:   personID,
		PersonName: personName,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every issued token distinct even when two
			// sessions for one account start within the same second;
			// token strings back a unique column.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SigningKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
