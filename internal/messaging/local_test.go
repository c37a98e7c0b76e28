package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"migrator/internal/models"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const testTimeout = 2 * time.Second

func receiveOne(t *testing.T, ch <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestMemoryPublishAndSubscribe(t *testing.T) {
	ch := NewMemoryChannel()
	pub := NewMemoryPublisher(ch, "user-migrated")
	sub := NewMemorySubscriber(ch, "user-migrated")
	defer pub.Close()

	msgCh := sub.Subscribe()

	uuid := watermill.NewUUID()
	err := pub.Publish(message.NewMessage(uuid, []byte("hello")))
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	msg := receiveOne(t, msgCh)
	if msg.UUID != uuid {
		t.Errorf("expected UUID %s, got %s", uuid, msg.UUID)
	}
	msg.Ack()
}

func TestPublishUserMigrated(t *testing.T) {
	ch := NewMemoryChannel()
	pub := NewMemoryPublisher(ch, "user-migrated")
	sub := NewMemorySubscriber(ch, "user-migrated")
	defer pub.Close()

	msgCh := sub.Subscribe()

	migratedAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	err := PublishUserMigrated(pub, models.UserMigratedEvent{
		LegacyUsername:  "jdoe",
		Flow:            models.FlowAuthentication,
		FinalUserStatus: models.FinalUserStatusConfirmed,
		UserPoolID:      "eu-west-1_new",
		MigratedAt:      migratedAt,
	})
	if err != nil {
		t.Fatalf("PublishUserMigrated failed: %v", err)
	}

	msg := receiveOne(t, msgCh)
	defer msg.Ack()

	if msg.Metadata.Get("type") != "user.migrated" {
		t.Errorf("expected type metadata user.migrated, got %q", msg.Metadata.Get("type"))
	}

	var payload map[string]any
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["legacy_username"] != "jdoe" {
		t.Errorf("expected legacy_username=jdoe, got %v", payload["legacy_username"])
	}
	if payload["flow"] != "Authentication" {
		t.Errorf("expected flow=Authentication, got %v", payload["flow"])
	}
	if payload["final_user_status"] != "Confirmed" {
		t.Errorf("expected final_user_status=Confirmed, got %v", payload["final_user_status"])
	}
	for _, forbidden := range []string{"password", "attributes"} {
		if _, ok := payload[forbidden]; ok {
			t.Errorf("payload must not carry %s", forbidden)
		}
	}
}

func TestPublishUserMigratedOmitsStatusForForgotPassword(t *testing.T) {
	msg, err := NewUserMigratedMessage(models.UserMigratedEvent{
		LegacyUsername: "jdoe",
		Flow:           models.FlowForgotPassword,
	})
	if err != nil {
		t.Fatalf("NewUserMigratedMessage failed: %v", err)
	}

	var payload map[string]any
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if _, ok := payload["final_user_status"]; ok {
		t.Error("final_user_status should be omitted for ForgotPassword")
	}
}

func TestMemoryPublisherClose(t *testing.T) {
	ch := NewMemoryChannel()
	pub := NewMemoryPublisher(ch, "user-migrated")

	if err := pub.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	err := pub.Publish(message.NewMessage(watermill.NewUUID(), []byte("after-close")))
	if err == nil {
		t.Error("expected error when publishing after Close, got nil")
	}
}

func TestStreamName(t *testing.T) {
	cases := map[string]string{
		"user.migrated":     "user_migrated",
		"migrator-events":   "migrator-events",
		"events.*.migrated": "events___migrated",
	}
	for subject, want := range cases {
		if got := StreamName(subject); got != want {
			t.Errorf("StreamName(%q) = %q, want %q", subject, got, want)
		}
	}
}
