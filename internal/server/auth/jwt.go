// Package auth issues and verifies the signed session tokens of the
// marketplace. Tokens are self-contained: validity is recomputed from the
// signature and a clock comparison, never looked up in the store. The flip
// side is that a token cannot be revoked before its natural expiry; the
// validity window in the server config is the only knob.
package auth

import (
	"errors"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity of the authenticated account. Subject of the
// registered claims is the account handle.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64       `json:"account_id"`
	Role      models.Role `json:"role"`
}

// GenerateToken mints an HS256-signed session token for the account.
func GenerateToken(handle string, accountID int64, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
		Role:      role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and structure of a session token and
// returns its claims. Expired tokens yield common.ErrTokenExpired; any other
// defect (bad signature, malformed string, wrong algorithm) yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ValidateToken succeeds only if the token verifies and its subject equals
// expectedHandle. A subject mismatch is an invalid-token error, same as a
// forged signature.
func ValidateToken(tokenString string, expectedHandle string, secretKey []byte) error {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return err
	}
	if claims.Subject != expectedHandle {
		return common.ErrInvalidToken
	}
	return nil
}

// HandleFromToken resolves the current account handle from a session token.
// Used by the authorization layer on every request.
func HandleFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
