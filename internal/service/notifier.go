package service

import (
	"context"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	"github.com/Eursukkul/airport-ground-ops/pkg/metrics"
	"github.com/google/uuid"
)

const RoutingKeyStatusChanged = "flight.status_changed"

type Publisher interface {
	Publish(routingKey string, payload any) error
}

// FlightStatusChanged is published after a status change is committed.
type FlightStatusChanged struct {
	ID           uuid.UUID `json:"id"`
	FlightID     uint      `json:"flight_id"`
	FlightNumber string    `json:"flight_number"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier reports committed changes to the log, metrics and the broker. The
// publisher may be nil when messaging is disabled.
type Notifier struct {
	publisher Publisher
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewNotifier(publisher Publisher, m *metrics.Metrics, log logger.Logger) *Notifier {
	return &Notifier{publisher: publisher, metrics: m, log: log}
}

// StatusChanged must only be called once the change is committed. Publish
// failures are logged and counted, never returned.
func (n *Notifier) StatusChanged(ctx context.Context, flight *models.Flight, from, to models.FlightStatus, at time.Time) {
	n.metrics.ObserveTransition(from.String(), to.String())
	n.log.Info("flight status changed",
		"flight_id", flight.ID,
		"flight_number", flight.Number,
		"from", from.String(),
		"to", to.String(),
	)

	if n.publisher == nil {
		return
	}
	msg := FlightStatusChanged{
		ID:           uuid.New(),
		FlightID:     flight.ID,
		FlightNumber: flight.Number,
		From:         from.String(),
		To:           to.String(),
		OccurredAt:   at.UTC(),
	}
	if err := n.publisher.Publish(RoutingKeyStatusChanged, msg); err != nil {
		n.metrics.IncPublishErrors()
		n.log.Error("publish status change failed", "flight_id", flight.ID, "error", err)
	}
}

func (n *Notifier) ToggleRejected(kind string, assignmentID uint, reason string) {
	n.metrics.ObserveRejection(kind)
	n.log.Info("assignment toggle rejected", "kind", kind, "assignment_id", assignmentID, "reason", reason)
}

func (n *Notifier) ToggleFinished(kind string, took time.Duration) {
	n.metrics.ObserveToggle(kind, took.Seconds())
}

// WorkerReleased must only be called once the release is committed.
func (n *Notifier) WorkerReleased(ev WorkerReleased, r StationsReleased) {
	n.metrics.IncWorkerReleases()
	n.log.Info("worker released from stations",
		"worker_id", ev.WorkerID,
		"reason", ev.Reason,
		"desks", r.Desks,
		"gates", r.Gates,
	)
}

func (n *Notifier) ScheduleSynced(ref, number string) {
	n.metrics.IncScheduleUpserts()
	n.log.Debug("flight synced from schedule", "ref", ref, "flight_number", number)
}
