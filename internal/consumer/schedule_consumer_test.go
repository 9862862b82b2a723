package consumer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock FlightService ---

type mockFlightService struct {
	service.FlightService
	syncFn func(ctx context.Context, in service.ScheduledFlight) error
}

func (m *mockFlightService) SyncSchedule(ctx context.Context, in service.ScheduledFlight) error {
	return m.syncFn(ctx, in)
}

// --- Mock Acknowledger ---

type ackResult struct {
	acked   bool
	nacked  bool
	requeue bool
}

type mockAcknowledger struct {
	res ackResult
}

func (a *mockAcknowledger) Ack(tag uint64, multiple bool) error {
	a.res.acked = true
	return nil
}

func (a *mockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.res.nacked = true
	a.res.requeue = requeue
	return nil
}

func (a *mockAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func deliver(t *testing.T, sc *ScheduleConsumer, body string) ackResult {
	t.Helper()
	ack := &mockAcknowledger{}
	sc.handleMessage(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "schedule.flight.upsert",
		Body:         []byte(body),
	})
	return ack.res
}

// --- Tests ---

func TestScheduleConsumer_SyncsFlight(t *testing.T) {
	var got service.ScheduledFlight
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		got = in
		return nil
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	res := deliver(t, sc, `{"ref":"SU100-20260301","number":"SU100","aircraft":"RA-89001","departure_airport":"SVO","arrival_airport":"LED","planned_departure":"2026-03-01T10:00:00Z"}`)

	assert.True(t, res.acked)
	assert.Equal(t, "SU100-20260301", got.Ref)
	assert.Equal(t, "SU100", got.Number)
	require.NotNil(t, got.PlannedDeparture)
	assert.True(t, got.PlannedDeparture.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))
	assert.Nil(t, got.PlannedArrival)
}

func TestScheduleConsumer_MalformedJSONIsDropped(t *testing.T) {
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		t.Fatal("sync must not be called")
		return nil
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	res := deliver(t, sc, `{not json`)

	assert.True(t, res.nacked)
	assert.False(t, res.requeue)
}

func TestScheduleConsumer_ValidationErrorIsDropped(t *testing.T) {
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		return &service.ValidationError{Field: "ref", Message: "schedule reference is required"}
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	res := deliver(t, sc, `{"number":"SU100"}`)

	assert.True(t, res.nacked)
	assert.False(t, res.requeue)
}

func TestScheduleConsumer_ValueTooLongForColumnIsDropped(t *testing.T) {
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		return fmt.Errorf("upsert scheduled flight: %w", repository.ErrInvalidValue)
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	res := deliver(t, sc, `{"ref":"feed-1","number":"SU100","departure_airport":"MOSCOW"}`)

	assert.True(t, res.nacked)
	assert.False(t, res.requeue, "a value the database cannot store must not block the queue")
}

func TestScheduleConsumer_TransientErrorIsRequeued(t *testing.T) {
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		return errors.New("connection reset")
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	res := deliver(t, sc, `{"ref":"r1","number":"SU100"}`)

	assert.True(t, res.nacked)
	assert.True(t, res.requeue)
}

func TestScheduleConsumer_StopsWhenChannelCloses(t *testing.T) {
	calls := 0
	svc := &mockFlightService{syncFn: func(ctx context.Context, in service.ScheduledFlight) error {
		calls++
		return nil
	}}
	sc := NewScheduleConsumer(svc, logger.NewNop())

	msgs := make(chan amqp.Delivery, 2)
	msgs <- amqp.Delivery{Acknowledger: &mockAcknowledger{}, Body: []byte(`{"ref":"a"}`)}
	msgs <- amqp.Delivery{Acknowledger: &mockAcknowledger{}, Body: []byte(`{"ref":"b"}`)}
	close(msgs)

	done := sc.Start(context.Background(), msgs)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, 2, calls)
}

func TestScheduleConsumer_StopsOnCancel(t *testing.T) {
	sc := NewScheduleConsumer(&mockFlightService{}, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := sc.Start(ctx, make(chan amqp.Delivery))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
