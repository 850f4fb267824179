package jwt

import (
	"errors"
	"fmt"
	"time"

	"devmart/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("unexpected token type")
)

// Claims are carried by both access and refresh tokens. The subject is the
// user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewToken(user models.User, typ string, duration time.Duration, secret []byte, now time.Time) (string, error) {
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse verifies the signature, expiry and type of a token.
func Parse(tokenString, typ string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Type != typ {
		return nil, ErrWrongType
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
