package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/eligibility"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/statemachine"
)

// ToggleResult is the outcome of switching an assignment on or off. A
// refused toggle has Success false, a Reason, and changes nothing.
type ToggleResult struct {
	Success bool
	Reason  string
	Status  models.FlightStatus
	Times   *models.FlightTimes
}

type AssignmentService interface {
	ToggleDeskAssignment(ctx context.Context, id uint, active bool) (ToggleResult, error)
	ToggleGateAssignment(ctx context.Context, id uint, active bool) (ToggleResult, error)
	DeleteDeskAssignment(ctx context.Context, id uint) error
	DeleteGateAssignment(ctx context.Context, id uint) error
	AssignFlightToDesk(ctx context.Context, deskID, flightID uint, active bool) (*models.Assignment, error)
	AssignFlightToGate(ctx context.Context, gateID, flightID uint, active bool) (*models.Assignment, error)
	ReleaseWorker(ctx context.Context, ev WorkerReleased) (StationsReleased, error)
}

// assignmentStore is the part of the desk and gate repositories the toggle
// needs.
type assignmentStore interface {
	FindAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	SetAssignmentActive(ctx context.Context, id uint, active bool) error
	CountActiveAssignments(ctx context.Context, flightID uint) (int64, error)
	DeleteAssignment(ctx context.Context, id uint) error
}

type stationKind struct {
	name            string
	store           assignmentStore
	opened, closed  statemachine.Event
	stationNotFound error
	accepts         func(models.FlightStatus) bool
	staffed         func(ctx context.Context, stationID uint) (bool, error)
	create          func(ctx context.Context, stationID, flightID uint) (uint, error)
}

type assignmentService struct {
	tx       repository.Transactor
	flights  repository.FlightRepository
	desks    repository.DeskRepository
	gates    repository.GateRepository
	machine  *statemachine.Machine
	notifier *Notifier
	now      func() time.Time

	desk stationKind
	gate stationKind
}

func NewAssignmentService(
	tx repository.Transactor,
	flights repository.FlightRepository,
	desks repository.DeskRepository,
	gates repository.GateRepository,
	machine *statemachine.Machine,
	notifier *Notifier,
) AssignmentService {
	s := &assignmentService{
		tx:       tx,
		flights:  flights,
		desks:    desks,
		gates:    gates,
		machine:  machine,
		notifier: notifier,
		now:      time.Now,
	}

	s.desk = stationKind{
		name:            "desk",
		store:           desks,
		opened:          statemachine.DeskOpened,
		closed:          statemachine.DeskClosed,
		stationNotFound: ErrDeskNotFound,
		accepts:         eligibility.DeskAcceptsFlight,
		staffed: func(ctx context.Context, id uint) (bool, error) {
			desk, err := desks.FindByID(ctx, id)
			if err != nil {
				return false, err
			}
			return desk.WorkerID != nil, nil
		},
		create: func(ctx context.Context, stationID, flightID uint) (uint, error) {
			a := &models.DeskAssignment{DeskID: stationID, FlightID: flightID}
			err := desks.CreateAssignment(ctx, a)
			return a.ID, err
		},
	}

	s.gate = stationKind{
		name:            "gate",
		store:           gates,
		opened:          statemachine.GateOpened,
		closed:          statemachine.GateClosed,
		stationNotFound: ErrGateNotFound,
		accepts:         eligibility.GateAcceptsFlight,
		staffed: func(ctx context.Context, id uint) (bool, error) {
			gate, err := gates.FindByID(ctx, id)
			if err != nil {
				return false, err
			}
			return gate.WorkerID != nil, nil
		},
		create: func(ctx context.Context, stationID, flightID uint) (uint, error) {
			a := &models.GateAssignment{GateID: stationID, FlightID: flightID}
			err := gates.CreateAssignment(ctx, a)
			return a.ID, err
		},
	}

	return s
}

func (s *assignmentService) ToggleDeskAssignment(ctx context.Context, id uint, active bool) (ToggleResult, error) {
	return s.toggle(ctx, s.desk, id, active)
}

func (s *assignmentService) ToggleGateAssignment(ctx context.Context, id uint, active bool) (ToggleResult, error) {
	return s.toggle(ctx, s.gate, id, active)
}

// applied carries what happened inside the transaction out to the post-commit
// notifications.
type applied struct {
	result     ToggleResult
	flight     *models.Flight
	transition statemachine.Transition
	at         time.Time
}

func (s *assignmentService) toggle(ctx context.Context, kind stationKind, id uint, active bool) (ToggleResult, error) {
	started := time.Now()
	defer func() { s.notifier.ToggleFinished(kind.name, time.Since(started)) }()

	var out applied
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := kind.store.FindAssignment(ctx, id)
		if err != nil {
			return notFound(err, ErrAssignmentNotFound)
		}
		out, err = s.apply(ctx, kind, a.ID, a.FlightID, active)
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}

	s.afterCommit(ctx, kind, id, out)
	return out.result, nil
}

// apply runs inside a transaction. It locks the flight, sets the assignment
// flag and moves the flight through the state machine.
func (s *assignmentService) apply(ctx context.Context, kind stationKind, assignmentID, flightID uint, active bool) (applied, error) {
	flight, err := s.flights.FindByIDForUpdate(ctx, flightID)
	if err != nil {
		return applied{}, notFound(err, ErrFlightNotFound)
	}
	out := applied{
		flight: flight,
		result: ToggleResult{Success: true, Status: flight.Status},
	}

	if kind.opened == statemachine.GateOpened && active {
		var rejection *statemachine.Rejection
		if err := statemachine.CheckGateOpen(flight.Status); errors.As(err, &rejection) {
			out.result.Success = false
			out.result.Reason = rejection.Reason
			return out, nil
		}
	}

	if err := kind.store.SetAssignmentActive(ctx, assignmentID, active); err != nil {
		return applied{}, fmt.Errorf("set %s assignment active: %w", kind.name, notFound(err, ErrAssignmentNotFound))
	}

	activeCount, err := kind.store.CountActiveAssignments(ctx, flightID)
	if err != nil {
		return applied{}, fmt.Errorf("count active %s assignments: %w", kind.name, err)
	}
	others := activeCount
	if active {
		others--
	}

	event := kind.closed
	if active {
		event = kind.opened
	}
	tr, err := s.machine.Next(flight.Status, event, others > 0)
	if err != nil {
		return applied{}, err
	}

	times, err := s.flights.GetOrCreateTimes(ctx, flightID)
	if err != nil {
		return applied{}, fmt.Errorf("load flight times: %w", err)
	}

	out.at = s.now()
	if !tr.Noop() {
		tr.Apply(times, out.at)
		if err := s.flights.SaveTimes(ctx, times); err != nil {
			return applied{}, fmt.Errorf("save flight times: %w", err)
		}
	}
	if tr.Changed() {
		if err := s.flights.UpdateStatus(ctx, flightID, tr.To); err != nil {
			return applied{}, fmt.Errorf("update flight status: %w", err)
		}
	}

	out.transition = tr
	out.result.Status = tr.To
	out.result.Times = times
	return out, nil
}

func (s *assignmentService) afterCommit(ctx context.Context, kind stationKind, assignmentID uint, out applied) {
	if !out.result.Success {
		s.notifier.ToggleRejected(kind.name, assignmentID, out.result.Reason)
		return
	}
	if out.transition.Changed() {
		s.notifier.StatusChanged(ctx, out.flight, out.transition.From, out.transition.To, out.at)
	}
}

func (s *assignmentService) DeleteDeskAssignment(ctx context.Context, id uint) error {
	return notFound(s.desks.DeleteAssignment(ctx, id), ErrAssignmentNotFound)
}

func (s *assignmentService) DeleteGateAssignment(ctx context.Context, id uint) error {
	return notFound(s.gates.DeleteAssignment(ctx, id), ErrAssignmentNotFound)
}

func (s *assignmentService) AssignFlightToDesk(ctx context.Context, deskID, flightID uint, active bool) (*models.Assignment, error) {
	return s.assign(ctx, s.desk, deskID, flightID, active)
}

func (s *assignmentService) AssignFlightToGate(ctx context.Context, gateID, flightID uint, active bool) (*models.Assignment, error) {
	return s.assign(ctx, s.gate, gateID, flightID, active)
}

func (s *assignmentService) assign(ctx context.Context, kind stationKind, stationID, flightID uint, active bool) (*models.Assignment, error) {
	var (
		created *models.Assignment
		out     applied
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		staffed, err := kind.staffed(ctx, stationID)
		if err != nil {
			return notFound(err, kind.stationNotFound)
		}
		if !staffed {
			return ErrStationUnstaffed
		}

		flight, err := s.flights.FindByIDForUpdate(ctx, flightID)
		if err != nil {
			return notFound(err, ErrFlightNotFound)
		}
		if !kind.accepts(flight.Status) {
			return ErrFlightNotEligible
		}

		id, err := kind.create(ctx, stationID, flightID)
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyAssigned
		}
		if err != nil {
			return fmt.Errorf("create %s assignment: %w", kind.name, err)
		}
		created = &models.Assignment{ID: id, StationID: stationID, FlightID: flightID}

		if !active {
			return nil
		}
		out, err = s.apply(ctx, kind, id, flightID, true)
		if err != nil {
			return err
		}
		// Eligibility excludes every status a gate refuses to open for.
		created.IsActive = out.result.Success
		return nil
	})
	if err != nil {
		return nil, err
	}

	if active {
		s.afterCommit(ctx, kind, created.ID, out)
	}
	return created, nil
}

// ReleaseWorker detaches a deactivated or deleted worker from every desk and
// gate. It joins the caller's transaction when there is one and leaves
// reporting to the caller, who knows when that transaction commits.
func (s *assignmentService) ReleaseWorker(ctx context.Context, ev WorkerReleased) (StationsReleased, error) {
	var r StationsReleased
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if r.Desks, err = s.desks.ReleaseWorker(ctx, ev.WorkerID); err != nil {
			return fmt.Errorf("release worker desks: %w", err)
		}
		if r.Gates, err = s.gates.ReleaseWorker(ctx, ev.WorkerID); err != nil {
			return fmt.Errorf("release worker gates: %w", err)
		}
		return nil
	})
	if err != nil {
		return StationsReleased{}, err
	}
	return r, nil
}
