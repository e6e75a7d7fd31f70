// Package auth mints and verifies the HS256 access tokens that identify a
// principal to the server.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/rateday/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the principal the token was
// issued for.
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID string `json:"pid"`
}

func GenerateToken(principalID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		PrincipalID: principalID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetPrincipalIDFromToken verifies tokenString and returns its principal.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// verification yields common.ErrInvalidToken.
func GetPrincipalIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.PrincipalID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.PrincipalID, nil
}
