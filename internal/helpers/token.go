package helpers

import (
	"errors"
	"strings"
	"time"

	"migrator/internal/configuration"
	"migrator/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// NewInvokerToken signs an HS256 token that authorizes subject to call the
// migration endpoints for ttl.
func NewInvokerToken(secret string, subject string, audience string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := models.InvokerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    configuration.AppName,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseInvokerToken validates a "Bearer <token>" header value: HMAC signature,
// expiry, issuer and audience.
func ParseInvokerToken(secret string, audience string, header string) (models.InvokerClaims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return models.InvokerClaims{}, ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims := &models.InvokerClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(configuration.AppName),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.InvokerClaims{}, ErrInvalidToken
	}

	return *claims, nil
}
