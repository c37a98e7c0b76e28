package messaging

import (
	"context"
	"net"
	"strings"

	"migrator/internal/models"

	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/jetstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats.go"
	natsJs "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"
)

type JetStreamPublisher struct {
	Subject   string
	publisher *jetstream.Publisher
}

// NewJetStreamPublisher connects to NATS and makes sure a stream captures
// subject, so that events published before any consumer exists are kept.
func NewJetStreamPublisher(config *models.JetStreamEventsConfig, subject string) IPublisher {
	nc, err := nats.Connect(net.JoinHostPort(config.Host, config.Port))
	if err != nil {
		zap.L().Fatal("Failed to connect to NATS", zap.Error(err))
	}

	js, err := natsJs.New(nc)
	if err != nil {
		zap.L().Fatal("Failed to create JetStream context", zap.Error(err))
	}

	streamName := StreamName(subject)
	_, err = js.CreateOrUpdateStream(context.Background(), natsJs.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Retention: natsJs.LimitsPolicy,
	})
	if err != nil {
		zap.L().Fatal("Failed to create stream",
			zap.String("stream_name", streamName),
			zap.String("subject", subject),
			zap.Error(err))
	}

	publisher, err := jetstream.NewPublisher(jetstream.PublisherConfig{
		Conn: nc,
	})
	if err != nil {
		zap.L().Fatal("Failed to create JetStream publisher", zap.Error(err))
	}

	return &JetStreamPublisher{Subject: subject, publisher: publisher}
}

// StreamName derives a valid JetStream stream name from a subject.
func StreamName(subject string) string {
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(subject)
}

func (p *JetStreamPublisher) Publish(messages ...*message.Message) error {
	return p.publisher.Publish(p.Subject, messages...)
}

func (p *JetStreamPublisher) Close() error {
	return p.publisher.Close()
}
