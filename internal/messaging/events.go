package messaging

import (
	"encoding/json"
	"fmt"

	c "migrator/internal/configuration"
	"migrator/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewUserMigratedMessage wraps event in a watermill message tagged with its
// event type.
func NewUserMigratedMessage(event models.UserMigratedEvent) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", c.EventUserMigrated, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", c.EventUserMigrated)
	return msg, nil
}

func PublishUserMigrated(publisher IPublisher, event models.UserMigratedEvent) error {
	msg, err := NewUserMigratedMessage(event)
	if err != nil {
		return err
	}
	return publisher.Publish(msg)
}
