package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is what the rest of the system sees after token validation.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

type wireClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateToken signs an HS256 token whose subject is the user id.
func GenerateToken(userID uuid.UUID, email string, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
	}).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

func ValidateToken(tokenString string, secret string) (*Claims, error) {
	var wc wireClaims
	token, err := jwt.ParseWithClaims(tokenString, &wc,
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("ValidateToken: token not valid")
	}

	userID, err := uuid.Parse(wc.Subject)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: subject is not a user id: %w", err)
	}

	return &Claims{UserID: userID, Email: wc.Email}, nil
}
