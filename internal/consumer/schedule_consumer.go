package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ScheduleMessage is one flight from the schedule feed.
type ScheduleMessage struct {
	Ref              string     `json:"ref"`
	Number           string     `json:"number"`
	Aircraft         string     `json:"aircraft"`
	DepartureAirport string     `json:"departure_airport"`
	ArrivalAirport   string     `json:"arrival_airport"`
	PlannedDeparture *time.Time `json:"planned_departure"`
	PlannedArrival   *time.Time `json:"planned_arrival"`
}

// errPoison marks a message that will never succeed and must not be requeued.
var errPoison = errors.New("unprocessable schedule message")

type ScheduleConsumer struct {
	flights service.FlightService
	log     logger.Logger
	timeout time.Duration
}

func NewScheduleConsumer(flights service.FlightService, log logger.Logger) *ScheduleConsumer {
	return &ScheduleConsumer{flights: flights, log: log.With("component", "schedule_consumer"), timeout: 10 * time.Second}
}

// Start drains msgs until the channel closes or ctx is cancelled. The
// returned channel is closed once the loop has exited.
func (sc *ScheduleConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				sc.log.Info("context cancelled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					sc.log.Info("channel closed, stopping consumer")
					return
				}
				sc.handleMessage(ctx, msg)
			}
		}
	}()
	return done
}

func (sc *ScheduleConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	ctx, cancel := context.WithTimeout(ctx, sc.timeout)
	defer cancel()

	err := sc.handle(ctx, msg.Body)
	switch {
	case err == nil:
		msg.Ack(false)
	case errors.Is(err, errPoison):
		sc.log.Warn("dropping schedule message", "routing_key", msg.RoutingKey, "error", err)
		msg.Nack(false, false)
	default:
		sc.log.Error("failed to sync schedule message", "routing_key", msg.RoutingKey, "error", err)
		msg.Nack(false, true) // requeue
	}
}

func (sc *ScheduleConsumer) handle(ctx context.Context, body []byte) error {
	var m ScheduleMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("%w: %v", errPoison, err)
	}

	err := sc.flights.SyncSchedule(ctx, service.ScheduledFlight{
		Ref: m.Ref,
		FlightInput: service.FlightInput{
			Number:           m.Number,
			Aircraft:         m.Aircraft,
			DepartureAirport: m.DepartureAirport,
			ArrivalAirport:   m.ArrivalAirport,
			PlannedDeparture: m.PlannedDeparture,
			PlannedArrival:   m.PlannedArrival,
		},
	})
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("%w: %s: %s", errPoison, verr.Field, verr.Message)
	case errors.Is(err, repository.ErrInvalidValue):
		return fmt.Errorf("%w: %v", errPoison, err)
	}
	return err
}
