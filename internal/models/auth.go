package models

import "github.com/golang-jwt/jwt/v5"

// InvokerClaims identifies a caller of the HTTP surface, typically the
// identity provider or a test harness acting on its behalf.
type InvokerClaims struct {
	jwt.RegisteredClaims
}

type InvokerClaimKey struct{}

type LoggerKey struct{}

type BodyKey struct{}

type QueryKey struct{}
