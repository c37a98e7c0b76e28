package legacy

import (
	"context"

	"migrator/internal/models"
)

// AuthStatus is the classified result of one authentication mechanism call.
type AuthStatus uint8

const (
	AuthAuthenticated AuthStatus = iota + 1
	AuthChallenged
	AuthUserNotFound
	AuthInvalidCredentials
	AuthMechanismUnavailable
	AuthTransient
)

func (s AuthStatus) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthChallenged:
		return "challenged"
	case AuthUserNotFound:
		return "user_not_found"
	case AuthInvalidCredentials:
		return "invalid_credentials"
	case AuthMechanismUnavailable:
		return "mechanism_unavailable"
	case AuthTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// AuthResult carries an AuthStatus, the challenge name for AuthChallenged and
// the underlying cause for AuthTransient and AuthMechanismUnavailable.
type AuthResult struct {
	Status    AuthStatus
	Challenge string
	Err       error
}

// Authenticator exposes the legacy store's password mechanisms.
type Authenticator interface {
	AdminAuthenticate(ctx context.Context, username, password string) AuthResult
	DirectAuthenticate(ctx context.Context, username, password string) AuthResult
}

// Directory exposes account lookups. Both methods return Found, NotFound or
// TransientError outcomes only.
type Directory interface {
	GetUser(ctx context.Context, username string) models.MigrationOutcome
	FindUserByEmail(ctx context.Context, email string) models.MigrationOutcome
}

// IdentityClient is the full capability surface of the legacy store.
type IdentityClient interface {
	Authenticator
	Directory
}
