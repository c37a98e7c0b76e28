package authflow

import (
	"context"

	c "migrator/internal/configuration"
	"migrator/internal/legacy"
)

// Strategy is one legacy authentication mechanism.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, username string, password string) legacy.AuthResult
}

// AdminStrategy sends the password to the privileged administrative API.
type AdminStrategy struct {
	Client legacy.Authenticator
}

func (s AdminStrategy) Name() string { return c.MechanismAdmin }

func (s AdminStrategy) Attempt(ctx context.Context, username string, password string) legacy.AuthResult {
	return s.Client.AdminAuthenticate(ctx, username, password)
}

// DirectStrategy uses the client-facing password grant.
type DirectStrategy struct {
	Client legacy.Authenticator
}

func (s DirectStrategy) Name() string { return c.MechanismDirect }

func (s DirectStrategy) Attempt(ctx context.Context, username string, password string) legacy.AuthResult {
	return s.Client.DirectAuthenticate(ctx, username, password)
}

// DefaultStrategies returns the mechanisms in priority order.
func DefaultStrategies(client legacy.Authenticator) []Strategy {
	return []Strategy{
		AdminStrategy{Client: client},
		DirectStrategy{Client: client},
	}
}
