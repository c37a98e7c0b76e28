package authflow

import (
	"context"
	"errors"

	"migrator/internal/cache"
	apierrors "migrator/internal/errors"
	"migrator/internal/legacy"
	"migrator/internal/metrics"
	"migrator/internal/models"

	"go.uber.org/zap"
)

// Resolver tries each Strategy in order until one gives an answer other than
// "mechanism unavailable", then turns that answer into a MigrationOutcome.
// Credential rejections and transient errors never fall through.
type Resolver struct {
	Strategies []Strategy
	Directory  legacy.Directory

	// Cache, when set, remembers the mechanism that last answered for
	// UserPoolID/ClientID so it is tried first on later requests.
	Cache      cache.ICache
	UserPoolID string
	ClientID   string

	Metrics *metrics.Metrics
}

func NewResolver(client legacy.IdentityClient, config *models.LegacyConfiguration) *Resolver {
	return &Resolver{
		Strategies: DefaultStrategies(client),
		Directory:  client,
		UserPoolID: config.UserPoolID,
		ClientID:   config.ClientID,
	}
}

func (r *Resolver) Authenticate(ctx context.Context, username string, password string) models.MigrationOutcome {
	strategies, preferred := r.ordered(ctx)

	for _, strategy := range strategies {
		result := strategy.Attempt(ctx, username, password)
		r.Metrics.ObserveAuthAttempt(strategy.Name(), result.Status.String())

		switch result.Status {
		case legacy.AuthMechanismUnavailable:
			zap.L().Debug("Legacy authentication mechanism unavailable, trying next",
				zap.String("mechanism", strategy.Name()),
				zap.Error(result.Err))
			continue
		case legacy.AuthAuthenticated, legacy.AuthChallenged:
			r.remember(ctx, preferred, strategy.Name())
			return r.Directory.GetUser(ctx, username)
		case legacy.AuthUserNotFound:
			r.remember(ctx, preferred, strategy.Name())
			return models.NotFound()
		case legacy.AuthInvalidCredentials:
			r.remember(ctx, preferred, strategy.Name())
			return models.InvalidCredentials()
		default:
			cause := result.Err
			if cause == nil {
				cause = errors.New("unclassified legacy authentication result")
			}
			return models.TransientError(cause)
		}
	}

	return models.TransientError(apierrors.ErrNoAuthMechanism)
}

// ordered returns the strategies with the remembered mechanism moved to the
// front, along with that mechanism's name.
func (r *Resolver) ordered(ctx context.Context) ([]Strategy, string) {
	if r.Cache == nil {
		return r.Strategies, ""
	}

	preferred, err := r.Cache.GetMechanism(ctx, r.UserPoolID, r.ClientID)
	if err != nil {
		zap.L().Warn("Failed to read remembered legacy mechanism", zap.Error(err))
		return r.Strategies, ""
	}
	if preferred == "" {
		return r.Strategies, ""
	}

	ordered := make([]Strategy, 0, len(r.Strategies))
	for _, strategy := range r.Strategies {
		if strategy.Name() == preferred {
			ordered = append(ordered, strategy)
		}
	}
	if len(ordered) == 0 {
		return r.Strategies, ""
	}
	for _, strategy := range r.Strategies {
		if strategy.Name() != preferred {
			ordered = append(ordered, strategy)
		}
	}
	return ordered, preferred
}

func (r *Resolver) remember(ctx context.Context, preferred string, mechanism string) {
	if r.Cache == nil || preferred == mechanism {
		return
	}
	if err := r.Cache.SetMechanism(ctx, r.UserPoolID, r.ClientID, mechanism); err != nil {
		zap.L().Warn("Failed to remember legacy mechanism",
			zap.String("mechanism", mechanism), zap.Error(err))
	}
}
