// Package statemachine decides how a flight's status and its recorded phase
// timestamps move when check-in desks and boarding gates open or close.
//
// The package is pure: it never reads a clock or touches storage. Callers apply
// the returned Transition to a FlightTimes record with their own notion of now.
package statemachine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
)

type Event int

const (
	DeskOpened Event = iota + 1
	DeskClosed
	GateOpened
	GateClosed
)

func (e Event) String() string {
	switch e {
	case DeskOpened:
		return "desk_opened"
	case DeskClosed:
		return "desk_closed"
	case GateOpened:
		return "gate_opened"
	case GateClosed:
		return "gate_closed"
	}
	return "unknown"
}

// Mark identifies one of the phase timestamps on FlightTimes.
type Mark int

const (
	CheckInOpen Mark = iota + 1
	CheckInClose
	BoardingOpen
	BoardingClose
)

// Rejection is returned when an event is not allowed for the flight's current
// status. Reason is meant to be shown to the operator as is.
type Rejection struct {
	Status models.FlightStatus
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("cannot open boarding for this flight (%s)", r.Reason)
}

type Transition struct {
	From  models.FlightStatus
	To    models.FlightStatus
	Stamp []Mark
	Clear []Mark
}

// Changed reports whether the status moves.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Noop reports whether applying the transition would change nothing at all.
func (t Transition) Noop() bool {
	return !t.Changed() && len(t.Stamp) == 0 && len(t.Clear) == 0
}

// Apply writes the stamps and clears onto times.
func (t Transition) Apply(times *models.FlightTimes, now time.Time) {
	for _, m := range t.Clear {
		*slot(times, m) = nil
	}
	for _, m := range t.Stamp {
		ts := now
		*slot(times, m) = &ts
	}
}

func slot(times *models.FlightTimes, m Mark) **time.Time {
	switch m {
	case CheckInOpen:
		return &times.CheckInOpenedAt
	case CheckInClose:
		return &times.CheckInClosedAt
	case BoardingOpen:
		return &times.BoardingOpenedAt
	case BoardingClose:
		return &times.BoardingClosedAt
	}
	panic(fmt.Sprintf("statemachine: unknown mark %d", m))
}

type Machine struct {
	gateOpenStatus models.FlightStatus
}

// New returns a machine that moves a flight to CheckInClosed when a gate
// opens. This mirrors the behaviour operators have relied on so far.
func New() *Machine {
	return &Machine{gateOpenStatus: models.StatusCheckInClosed}
}

// NewBoardingOpenOnGate returns a machine that moves a flight to BoardingOpen
// when a gate opens.
func NewBoardingOpenOnGate() *Machine {
	return &Machine{gateOpenStatus: models.StatusBoardingOpen}
}

// GateOpenStatus is the status a flight takes when one of its gates opens.
func (m *Machine) GateOpenStatus() models.FlightStatus {
	return m.gateOpenStatus
}

// CheckGateOpen returns a *Rejection if boarding may not start for a flight
// in the given status.
func CheckGateOpen(current models.FlightStatus) error {
	switch current {
	case models.StatusScheduled:
		return &Rejection{Status: current, Reason: "check-in has not started"}
	case models.StatusCheckInOpen:
		return &Rejection{Status: current, Reason: "check-in has not finished"}
	case models.StatusCancelled:
		return &Rejection{Status: current, Reason: "flight is cancelled"}
	}
	return nil
}

// Next computes the transition for event. othersActive tells whether another
// assignment of the same kind (desk for desk events, gate for gate events) is
// still active for the flight, not counting the one that triggered event.
func (m *Machine) Next(current models.FlightStatus, event Event, othersActive bool) (Transition, error) {
	t := Transition{From: current, To: current}

	switch event {
	case DeskOpened:
		if current != models.StatusCheckInOpen {
			t.To = models.StatusCheckInOpen
			t.Stamp = []Mark{CheckInOpen}
			t.Clear = []Mark{CheckInClose}
		}
	case DeskClosed:
		if !othersActive {
			t.To = models.StatusCheckInClosed
			t.Stamp = []Mark{CheckInClose}
		}
	case GateOpened:
		if err := CheckGateOpen(current); err != nil {
			return t, err
		}
		if current != models.StatusBoardingOpen {
			t.To = m.gateOpenStatus
			t.Stamp = []Mark{BoardingOpen}
			t.Clear = []Mark{BoardingClose}
		}
	case GateClosed:
		if !othersActive {
			t.To = models.StatusBoardingClosed
			t.Stamp = []Mark{BoardingClose}
		}
	default:
		return t, fmt.Errorf("statemachine: unknown event %d", event)
	}

	return t, nil
}

var ErrNotSelectable = errors.New("status can only be reached by opening or closing desks and gates")

// Manual validates a direct status edit. Only Scheduled, Departed, Arrived,
// Delayed and Cancelled may be chosen by hand; keeping the current status is
// always allowed.
func Manual(current, target models.FlightStatus) (Transition, error) {
	t := Transition{From: current, To: current}
	if !target.Valid() {
		return t, fmt.Errorf("statemachine: invalid status %d", target)
	}
	if target == current {
		return t, nil
	}
	if !Selectable(target) {
		return t, ErrNotSelectable
	}
	t.To = target
	return t, nil
}

// Selectable reports whether status may be set by ordinary editing.
func Selectable(status models.FlightStatus) bool {
	switch status {
	case models.StatusScheduled, models.StatusDeparted, models.StatusArrived,
		models.StatusDelayed, models.StatusCancelled:
		return true
	}
	return false
}
