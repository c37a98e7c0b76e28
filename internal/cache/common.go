package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"migrator/internal/configuration"
	"migrator/internal/models"

	"github.com/redis/rueidis"
)

type RueidisCache struct {
	client rueidis.Client
}

var _ ICache = (*RueidisCache)(nil)

func newRueidisCache(
	hosts []string,
	password string,
	tlsEnabled bool,
	tlsServerName,
	errorContext string,
) (*RueidisCache, error) {
	clientOption := rueidis.ClientOption{
		InitAddress: hosts,
		Password:    password,
	}

	if tlsEnabled {
		clientOption.TLSConfig = &tls.Config{
			ServerName: tlsServerName,
			MinVersion: tls.VersionTLS12,
		}
	}

	client, err := rueidis.NewClient(clientOption)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", errorContext, err)
	}
	return &RueidisCache{client: client}, nil
}

func NewRedisCache(config models.RedisCacheConfiguration) (*RueidisCache, error) {
	return newRueidisCache(config.Hosts, config.Password, config.TLSEnabled, config.TLSServerName, "redis")
}

func NewValkeyCache(config models.ValkeyCacheConfiguration) (*RueidisCache, error) {
	return newRueidisCache(config.Hosts, config.Password, config.TLSEnabled, config.TLSServerName, "valkey")
}

func mechanismKey(userPoolID string, clientID string) string {
	return fmt.Sprintf(configuration.CacheMechanismKey, userPoolID, clientID)
}

func (r *RueidisCache) GetMechanism(ctx context.Context, userPoolID string, clientID string) (string, error) {
	mechanism, err := r.client.Do(ctx, r.client.B().Get().Key(mechanismKey(userPoolID, clientID)).Build()).
		ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", nil
		}
		return "", err
	}
	return mechanism, nil
}

func (r *RueidisCache) SetMechanism(ctx context.Context, userPoolID string, clientID string, mechanism string) error {
	return r.client.Do(ctx,
		r.client.B().Set().
			Key(mechanismKey(userPoolID, clientID)).
			Value(mechanism).
			Ex(time.Duration(configuration.CacheMechanismTTL)*time.Second).
			Build(),
	).Error()
}

func (r *RueidisCache) Close() error {
	r.client.Close()
	return nil
}
