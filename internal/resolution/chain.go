package resolution

import (
	"context"
	"strings"

	"migrator/internal/legacy"
	"migrator/internal/models"

	"go.uber.org/zap"
)

// Mode selects how the chain locates the account.
type Mode uint8

const (
	// ModeAuthenticate verifies the password, retrying once under the
	// username registered for an email-shaped identifier.
	ModeAuthenticate Mode = iota
	// ModeLookupOnly locates the account by username without a password.
	ModeLookupOnly
)

func (m Mode) String() string {
	if m == ModeLookupOnly {
		return "lookup_only"
	}
	return "authenticate"
}

// Authenticator verifies a username and password against the legacy store.
type Authenticator interface {
	Authenticate(ctx context.Context, username string, password string) models.MigrationOutcome
}

type Chain struct {
	Authenticator Authenticator
	Directory     legacy.Directory
}

func (c *Chain) Resolve(ctx context.Context, identifier string, password string, mode Mode) models.MigrationOutcome {
	if mode == ModeLookupOnly {
		return c.lookup(ctx, identifier)
	}

	first := c.Authenticator.Authenticate(ctx, identifier, password)
	if !first.IsTerminalRejection() || !looksLikeEmail(identifier) {
		return first
	}

	match := c.Directory.FindUserByEmail(ctx, identifier)
	switch match.Kind {
	case models.OutcomeTransientError:
		return match
	case models.OutcomeFound:
		if match.User.Username == identifier {
			return first
		}
	default:
		return first
	}

	zap.L().Debug("Retrying legacy authentication with the username registered for the email",
		zap.String("identifier_kind", "email"))

	retry := c.Authenticator.Authenticate(ctx, match.User.Username, password)
	if retry.Kind == models.OutcomeFound || retry.Kind == models.OutcomeTransientError {
		return retry
	}
	return first
}

func (c *Chain) lookup(ctx context.Context, username string) models.MigrationOutcome {
	outcome := c.Directory.GetUser(ctx, username)
	if outcome.Kind == models.OutcomeFound && !outcome.User.Enabled {
		return models.InvalidCredentials()
	}
	return outcome
}

func looksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
