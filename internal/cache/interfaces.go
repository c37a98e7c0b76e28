package cache

import "context"

// ICache remembers which legacy authentication mechanism a user pool client
// accepts. GetMechanism returns an empty string when nothing is recorded.
type ICache interface {
	GetMechanism(ctx context.Context, userPoolID string, clientID string) (string, error)
	SetMechanism(ctx context.Context, userPoolID string, clientID string, mechanism string) error

	Close() error
}
