package config

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// NotificationEvent is the payload published to the notification topic when a
// notification row is written. Consumers (mail/push relays) fan out from the
// topic; the database row is always the source of truth.
type NotificationEvent struct {
	UserId        int       `json:"user_id"`
	Kind          string    `json:"kind"`
	Message       string    `json:"message"`
	ReferenceType string    `json:"reference_type"`
	ReferenceId   int       `json:"reference_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationId string    `json:"correlation_id"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// NotificationEventsEnabled reports whether notification events should be
// published to Pub/Sub. Disabled unless PUBSUB_NOTIFICATION_TOPIC is set.
func NotificationEventsEnabled() bool {
	return os.Getenv("PUBSUB_NOTIFICATION_TOPIC") != ""
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	// Cloud Run/Cloud Functions often set this.
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	if v := os.Getenv("GCP_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	if pubsubClient != nil {
		c := pubsubClient
		pubsubClientMu.Unlock()
		return c, nil
	}
	pubsubClientMu.Unlock()

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var (
		c   *pubsub.Client
		err error
	)
	if credJSON != "" {
		c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
	} else {
		// Uses Application Default Credentials (service account or GOOGLE_APPLICATION_CREDENTIALS).
		c, err = pubsub.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, err
	}

	pubsubClientMu.Lock()
	if pubsubClient == nil {
		pubsubClient = c
	} else {
		// Another goroutine won the race; close ours.
		_ = c.Close()
	}
	c2 := pubsubClient
	pubsubClientMu.Unlock()

	log.Printf("pubsub client ready (project_id=%s)", projectID)
	return c2, nil
}

// PublishNotificationEvent publishes a notification event and returns the
// server-assigned message ID. Callers treat failures as best-effort: the
// notification row has already been committed.
func PublishNotificationEvent(ctx context.Context, event NotificationEvent) (string, error) {
	topicName := os.Getenv("PUBSUB_NOTIFICATION_TOPIC")
	if topicName == "" {
		return "", errors.New("PUBSUB_NOTIFICATION_TOPIC is required")
	}

	client, err := getPubSubClient(ctx)
	if err != nil {
		return "", err
	}

	msgJSON, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	t := client.Topic(topicName)
	result := t.Publish(pubCtx, &pubsub.Message{Data: msgJSON})
	return result.Get(pubCtx)
}
