package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"activity-signup/internal/common/aws"
	"activity-signup/internal/common/config"
	"activity-signup/internal/common/database"
	"activity-signup/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &ses.SendEmailOutput{MessageId: awssdk.String("msg-1")}, nil
}

type failingSink struct{}

func (failingSink) Name() string { return "failing" }

func (failingSink) Publish(ctx context.Context, ev Event) error {
	return errors.New("unavailable")
}

// ==========================
// Tests
// ==========================

func TestNew_PopulatesEvent(t *testing.T) {
	ev := New(TypeSignup, "Chess Club", "test@example.com", 3)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, TypeSignup, ev.Type)
	assert.Equal(t, 3, ev.Participants)
	assert.WithinDuration(t, time.Now(), ev.OccurredAt, time.Minute)
}

func TestRedisStreamSink_Publish(t *testing.T) {
	mr, client := setupRedis(t)
	sink := NewRedisStreamSink(client, "activity-signups", 100)

	ev := New(TypeSignup, "Chess Club", "test@example.com", 3)
	require.NoError(t, sink.Publish(context.Background(), ev))

	entries, err := mr.Stream("activity-signups")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := map[string]string{}
	for i := 0; i+1 < len(entries[0].Values); i += 2 {
		values[entries[0].Values[i]] = entries[0].Values[i+1]
	}
	assert.Equal(t, ev.ID, values["id"])
	assert.Equal(t, "signup", values["type"])
	assert.Equal(t, "Chess Club", values["activity"])
	assert.Equal(t, "3", values["participants"])
}

func TestRedisStreamSink_ConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := database.NewRedis(config.RedisConfig{Address: addr})
	defer client.Close()
	sink := NewRedisStreamSink(client, "activity-signups", 0)

	err = sink.Publish(context.Background(), New(TypeSignup, "Chess Club", "a@example.com", 1))

	assert.Error(t, err)
}

func TestEmailSink_Publish(t *testing.T) {
	api := &fakeSES{}
	sink := NewEmailSink(aws.NewSESClientWithAPI(api, "clubs@mergington.edu"))

	err := sink.Publish(context.Background(), New(TypeUnregister, "Chess Club", "michael@mergington.edu", 1))

	require.NoError(t, err)
	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "clubs@mergington.edu", awssdk.ToString(in.Source))
	assert.Equal(t, []string{"michael@mergington.edu"}, in.Destination.ToAddresses)
	assert.Equal(t, "You have left Chess Club", awssdk.ToString(in.Message.Subject.Data))
}

func TestDispatcher_ContinuesPastFailures(t *testing.T) {
	mr, client := setupRedis(t)
	api := &fakeSES{}
	d := NewDispatcher(logger.NewTestLogger(t), time.Second,
		failingSink{},
		NewRedisStreamSink(client, "activity-signups", 0),
		NewEmailSink(aws.NewSESClientWithAPI(api, "clubs@mergington.edu")),
	)

	delivered := d.Dispatch(context.Background(), New(TypeSignup, "Gym Class", "a@example.com", 3))

	assert.Equal(t, 2, delivered)
	entries, err := mr.Stream("activity-signups")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Len(t, api.inputs, 1)
}

func TestDispatcher_IgnoresCancelledRequest(t *testing.T) {
	api := &fakeSES{}
	d := NewDispatcher(logger.NewNoOpLogger(), time.Second,
		NewEmailSink(aws.NewSESClientWithAPI(api, "clubs@mergington.edu")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 1, d.Dispatch(ctx, New(TypeSignup, "Gym Class", "a@example.com", 3)))
}

func TestDispatcher_NilAndEmpty(t *testing.T) {
	var d *Dispatcher
	assert.Equal(t, 0, d.Dispatch(context.Background(), Event{}))

	empty := NewDispatcher(logger.NewNoOpLogger(), time.Second)
	assert.Equal(t, 0, empty.Dispatch(context.Background(), Event{}))
}

func TestDispatchAsync_WaitDrains(t *testing.T) {
	mr, client := setupRedis(t)
	d := NewDispatcher(logger.NewTestLogger(t), time.Second,
		NewRedisStreamSink(client, "activity-signups", 0))

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 5; i++ {
		d.DispatchAsync(ctx, New(TypeSignup, "Chess Club", "a@example.com", 3))
	}
	cancel()

	require.NoError(t, d.Wait(context.Background()))
	entries, err := mr.Stream("activity-signups")
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestWait_HonoursDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	d := NewDispatcher(logger.NewNoOpLogger(), time.Minute, blockingSink{block})
	d.DispatchAsync(context.Background(), New(TypeUnregister, "Gym Class", "a@example.com", 1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	var nilDispatcher *Dispatcher
	nilDispatcher.DispatchAsync(context.Background(), Event{})
	assert.NoError(t, nilDispatcher.Wait(context.Background()))
}

type blockingSink struct{ release chan struct{} }

func (blockingSink) Name() string { return "blocking" }

func (s blockingSink) Publish(ctx context.Context, ev Event) error {
	<-s.release
	return nil
}
