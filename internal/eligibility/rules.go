// Package eligibility holds the role and status rules deciding who may staff
// a desk or gate and which flights a desk or gate may serve.
package eligibility

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
)

// Violation is a validation failure tied to one input field.
type Violation struct {
	Field   string
	Message string
}

func (v *Violation) Error() string {
	return v.Field + ": " + v.Message
}

// CheckWorkerForDesk returns a *Violation unless the worker is an active
// check-in agent or shift lead.
func CheckWorkerForDesk(w *models.Worker) error {
	if !w.HasRole(models.RoleCheckInAgent, models.RoleShiftLead) {
		return &Violation{Field: "worker_id", Message: "only a check-in agent or a shift lead can staff a check-in desk"}
	}
	if !w.IsActive {
		return &Violation{Field: "worker_id", Message: "only an active worker can be assigned"}
	}
	return nil
}

// CheckWorkerForGate returns a *Violation unless the worker is a boarding
// agent or shift lead. Gates do not require the worker to be active.
func CheckWorkerForGate(w *models.Worker) error {
	if !w.HasRole(models.RoleBoardingAgent, models.RoleShiftLead) {
		return &Violation{Field: "worker_id", Message: "only a boarding agent or a shift lead can staff a gate"}
	}
	return nil
}

func CanAssignWorkerToDesk(w *models.Worker) bool { return CheckWorkerForDesk(w) == nil }

func CanAssignWorkerToGate(w *models.Worker) bool { return CheckWorkerForGate(w) == nil }

// DeskAcceptsFlight reports whether a desk may be assigned a flight in status.
func DeskAcceptsFlight(status models.FlightStatus) bool {
	return status < models.StatusCancelled
}

// GateAcceptsFlight reports whether a gate may be assigned a flight in status.
func GateAcceptsFlight(status models.FlightStatus) bool {
	switch status {
	case models.StatusScheduled, models.StatusCheckInOpen, models.StatusCancelled:
		return false
	}
	return true
}

type FlightFinder interface {
	FindNotAssignedToDesk(ctx context.Context, deskID uint) ([]models.Flight, error)
	FindNotAssignedToGate(ctx context.Context, gateID uint) ([]models.Flight, error)
}

type Rules struct {
	flights FlightFinder
}

func NewRules(flights FlightFinder) *Rules {
	return &Rules{flights: flights}
}

// EligibleFlightsForDesk lists flights not cancelled and not yet assigned to
// the desk.
func (r *Rules) EligibleFlightsForDesk(ctx context.Context, deskID uint) ([]models.Flight, error) {
	flights, err := r.flights.FindNotAssignedToDesk(ctx, deskID)
	if err != nil {
		return nil, err
	}
	return filter(flights, DeskAcceptsFlight), nil
}

// EligibleFlightsForGate lists flights past check-in, not cancelled and not
// yet assigned to the gate.
func (r *Rules) EligibleFlightsForGate(ctx context.Context, gateID uint) ([]models.Flight, error) {
	flights, err := r.flights.FindNotAssignedToGate(ctx, gateID)
	if err != nil {
		return nil, err
	}
	return filter(flights, GateAcceptsFlight), nil
}

func filter(flights []models.Flight, accept func(models.FlightStatus) bool) []models.Flight {
	out := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if accept(f.Status) {
			out = append(out, f)
		}
	}
	return out
}
