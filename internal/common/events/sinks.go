package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"activity-signup/internal/common/aws"
	"activity-signup/internal/common/database"
)

// RedisStreamSink appends events to a Redis stream as an audit trail.
type RedisStreamSink struct {
	client *database.RedisClient
	stream string
	maxLen int64
}

func NewRedisStreamSink(client *database.RedisClient, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Name() string { return "redis" }

func (s *RedisStreamSink) Publish(ctx context.Context, ev Event) error {
	_, err := s.client.AppendToStream(ctx, s.stream, s.maxLen, map[string]interface{}{
		"id":           ev.ID,
		"type":         string(ev.Type),
		"activity":     ev.Activity,
		"email":        ev.Email,
		"participants": strconv.Itoa(ev.Participants),
		"occurredAt":   ev.OccurredAt.Format(time.RFC3339Nano),
	})
	return err
}

// EmailSink sends a confirmation email to the participant.
type EmailSink struct {
	client *aws.SESClient
}

func NewEmailSink(client *aws.SESClient) *EmailSink {
	return &EmailSink{client: client}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Publish(ctx context.Context, ev Event) error {
	subject, body := confirmationText(ev)
	_, err := s.client.SendText(ctx, ev.Email, subject, body)
	return err
}

func confirmationText(ev Event) (string, string) {
	switch ev.Type {
	case TypeUnregister:
		return fmt.Sprintf("You have left %s", ev.Activity),
			fmt.Sprintf("Hi,\n\nYou are no longer signed up for %s.\n", ev.Activity)
	default:
		return fmt.Sprintf("You are signed up for %s", ev.Activity),
			fmt.Sprintf("Hi,\n\nYou are now signed up for %s.\n", ev.Activity)
	}
}
