package core

import (
	"context"

	"migrator/internal/activity"
	"migrator/internal/cache"
	"migrator/internal/configuration"
	"migrator/internal/legacy"
	"migrator/internal/messaging"
	"migrator/internal/models"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// NewLegacyClient builds the Cognito client for the legacy user pool. It is
// created once per process and shared by every invocation.
func NewLegacyClient(ctx context.Context, config *models.LegacyConfiguration) *legacy.CognitoClient {
	client, err := legacy.NewCognitoClient(ctx, config)
	if err != nil {
		zap.L().Fatal("Failed to create legacy identity client", zap.Error(err))
	}

	zap.L().Info("Legacy identity client ready",
		zap.String("region", config.Region),
		zap.String("user_pool_id", config.UserPoolID),
		zap.Bool("assume_role", config.RoleARN != ""))
	return client
}

// NewCache returns nil when caching is disabled.
func NewCache(config models.CacheConfiguration) cache.ICache {
	switch config.Type {
	case configuration.ProviderMemory:
		return cache.NewMemoryCache()
	case configuration.ProviderRedis:
		c, err := cache.NewRedisCache(*config.Redis)
		if err != nil {
			zap.L().Fatal("Failed to initialize cache", zap.String("type", config.Type), zap.Error(err))
		}
		return c
	case configuration.ProviderValkey:
		c, err := cache.NewValkeyCache(*config.Valkey)
		if err != nil {
			zap.L().Fatal("Failed to initialize cache", zap.String("type", config.Type), zap.Error(err))
		}
		return c
	default:
		return nil
	}
}

// NewMechanismMemo returns the cache backing the remembered auth mechanism, or
// nil when remembering is off so no cache connection is opened.
func NewMechanismMemo(config models.Configuration) cache.ICache {
	if !config.Legacy.RememberMechanism {
		return nil
	}
	return NewCache(config.Cache)
}

// NewPublisher returns nil when migration events are disabled.
func NewPublisher(config models.EventsConfiguration) messaging.IPublisher {
	var publisher messaging.IPublisher

	switch config.Type {
	case configuration.ProviderJetstream:
		publisher = messaging.NewJetStreamPublisher(config.Jetstream, config.Queue)
	case configuration.ProviderAWS:
		publisher = messaging.NewAWSPublisher(config.Queue)
	case configuration.ProviderMemory:
		ch := messaging.NewMemoryChannel()
		publisher = messaging.NewMemoryPublisher(ch, config.Queue)
		go logEvents(messaging.NewMemorySubscriber(ch, config.Queue).Subscribe())
	default:
		return nil
	}

	zap.L().Info("Initialized publisher",
		zap.String("queue", config.Queue),
		zap.String("provider", config.Type))
	return publisher
}

// logEvents drains an in-process subscription so local runs can see what
// would have been published.
func logEvents(messages <-chan *message.Message) {
	for msg := range messages {
		zap.L().Debug("Migration event",
			zap.String("type", msg.Metadata.Get("type")),
			zap.ByteString("payload", msg.Payload))
		msg.Ack()
	}
}

func NewActivityLogger(config models.ActivityConfiguration) activity.IActivityLogger {
	if config.Type == "filesystem" {
		return activity.NewFilesystemClient(config)
	}
	return activity.NoopClient{}
}
