package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/statemachine"
	"github.com/go-playground/validator/v10"
)

// FlightInput holds the schedule fields of a flight.
type FlightInput struct {
	Number           string
	Aircraft         string
	DepartureAirport string
	ArrivalAirport   string
	PlannedDeparture *time.Time
	PlannedArrival   *time.Time
}

// TimesInput holds the actual times an operator may record.
type TimesInput struct {
	ActualDeparture *time.Time
	ActualArrival   *time.Time
}

// ScheduledFlight is a flight announced by the schedule feed.
type ScheduledFlight struct {
	Ref string
	FlightInput
}

type FlightService interface {
	CreateFlight(ctx context.Context, in FlightInput) (*models.Flight, error)
	ListFlights(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error)
	GetFlight(ctx context.Context, id uint) (*models.Flight, error)
	UpdateFlight(ctx context.Context, id uint, in FlightInput) (*models.Flight, error)
	ChangeStatus(ctx context.Context, id uint, target models.FlightStatus) (*models.Flight, error)
	DeleteFlight(ctx context.Context, id uint) error
	UpdateTimes(ctx context.Context, id uint, in TimesInput) (*models.FlightTimes, error)
	SyncSchedule(ctx context.Context, in ScheduledFlight) error
}

type flightService struct {
	tx          repository.Transactor
	flights     repository.FlightRepository
	notifier    *Notifier
	homeAirport string
	now         func() time.Time
}

func NewFlightService(tx repository.Transactor, flights repository.FlightRepository, notifier *Notifier, homeAirport string) FlightService {
	return &flightService{
		tx:          tx,
		flights:     flights,
		notifier:    notifier,
		homeAirport: strings.ToUpper(homeAirport),
		now:         time.Now,
	}
}

func (s *flightService) departsHome(f *models.Flight) bool {
	return strings.EqualFold(f.DepartureAirport, s.homeAirport)
}

func (s *flightService) arrivesHome(f *models.Flight) bool {
	return strings.EqualFold(f.ArrivalAirport, s.homeAirport)
}

// checkPlan enforces that flights touching the home airport carry the planned
// time on that side.
func (s *flightService) checkPlan(f *models.Flight) error {
	if s.departsHome(f) && f.PlannedDeparture == nil {
		return &ValidationError{Field: "planned_departure", Message: "planned departure is required for flights departing from this airport"}
	}
	if s.arrivesHome(f) && f.PlannedArrival == nil {
		return &ValidationError{Field: "planned_arrival", Message: "planned arrival is required for flights arriving at this airport"}
	}
	return nil
}

var fieldRules = validator.New()

// checkFields applies the column limits of models.Flight, so every entry
// point (HTTP and the schedule feed) refuses what the database would.
func checkFields(f *models.Flight) error {
	for _, r := range []struct {
		field, value, tag, message string
	}{
		{"number", f.Number, "required,max=10", "number is required and must be at most 10 characters"},
		{"aircraft", f.Aircraft, "required,max=20", "aircraft is required and must be at most 20 characters"},
		{"departure_airport", f.DepartureAirport, "len=3,alpha", "departure airport must be a 3-letter IATA code"},
		{"arrival_airport", f.ArrivalAirport, "len=3,alpha", "arrival airport must be a 3-letter IATA code"},
	} {
		if err := fieldRules.Var(r.value, r.tag); err != nil {
			return &ValidationError{Field: r.field, Message: r.message}
		}
	}
	return nil
}

func applyInput(f *models.Flight, in FlightInput) {
	f.Number = strings.ToUpper(strings.TrimSpace(in.Number))
	f.Aircraft = strings.TrimSpace(in.Aircraft)
	f.DepartureAirport = strings.ToUpper(in.DepartureAirport)
	f.ArrivalAirport = strings.ToUpper(in.ArrivalAirport)
	f.PlannedDeparture = in.PlannedDeparture
	f.PlannedArrival = in.PlannedArrival
}

func (s *flightService) CreateFlight(ctx context.Context, in FlightInput) (*models.Flight, error) {
	flight := &models.Flight{Status: models.StatusScheduled}
	applyInput(flight, in)
	if err := checkFields(flight); err != nil {
		return nil, err
	}
	if err := s.checkPlan(flight); err != nil {
		return nil, err
	}

	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("create flight: %w", err)
	}
	return flight, nil
}

func (s *flightService) ListFlights(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error) {
	return s.flights.FindAll(ctx, status)
}

func (s *flightService) GetFlight(ctx context.Context, id uint) (*models.Flight, error) {
	flight, err := s.flights.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrFlightNotFound)
	}
	return flight, nil
}

func (s *flightService) UpdateFlight(ctx context.Context, id uint, in FlightInput) (*models.Flight, error) {
	var result *models.Flight

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		flight, err := s.flights.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrFlightNotFound)
		}
		applyInput(flight, in)
		if err := checkFields(flight); err != nil {
			return err
		}
		if err := s.checkPlan(flight); err != nil {
			return err
		}
		if err := s.flights.UpdatePlan(ctx, flight); err != nil {
			return fmt.Errorf("update flight: %w", notFound(err, ErrFlightNotFound))
		}
		result = flight
		return nil
	})

	return result, err
}

// ChangeStatus sets one of the statuses an operator may pick by hand.
func (s *flightService) ChangeStatus(ctx context.Context, id uint, target models.FlightStatus) (*models.Flight, error) {
	var (
		flight *models.Flight
		tr     statemachine.Transition
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		flight, err = s.flights.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrFlightNotFound)
		}

		tr, err = statemachine.Manual(flight.Status, target)
		if err != nil {
			return &ValidationError{Field: "status", Message: err.Error()}
		}
		if !tr.Changed() {
			return nil
		}
		if err := s.flights.UpdateStatus(ctx, id, tr.To); err != nil {
			return fmt.Errorf("update flight status: %w", err)
		}
		flight.Status = tr.To
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tr.Changed() {
		s.notifier.StatusChanged(ctx, flight, tr.From, tr.To, s.now())
	}
	return flight, nil
}

func (s *flightService) DeleteFlight(ctx context.Context, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.flights.FindByIDForUpdate(ctx, id); err != nil {
			return notFound(err, ErrFlightNotFound)
		}

		passengers, err := s.flights.CountPassengers(ctx, id)
		if err != nil {
			return err
		}
		if passengers > 0 {
			return ErrFlightHasPassengers
		}

		assignments, err := s.flights.CountAssignments(ctx, id)
		if err != nil {
			return err
		}
		if assignments > 0 {
			return ErrFlightInUse
		}

		err = s.flights.Delete(ctx, id)
		switch {
		case errors.Is(err, repository.ErrReferenced):
			return ErrFlightInUse
		case err != nil:
			return notFound(err, ErrFlightNotFound)
		}
		return nil
	})
}

// UpdateTimes records actual departure and arrival. A time is taken only for
// the side of the flight that is the home airport; the other is ignored.
func (s *flightService) UpdateTimes(ctx context.Context, id uint, in TimesInput) (*models.FlightTimes, error) {
	var result *models.FlightTimes

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		flight, err := s.flights.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrFlightNotFound)
		}

		times, err := s.flights.GetOrCreateTimes(ctx, id)
		if err != nil {
			return fmt.Errorf("load flight times: %w", err)
		}
		if s.departsHome(flight) {
			times.ActualDeparture = in.ActualDeparture
		}
		if s.arrivesHome(flight) {
			times.ActualArrival = in.ActualArrival
		}
		if err := s.flights.SaveTimes(ctx, times); err != nil {
			return fmt.Errorf("save flight times: %w", err)
		}

		result = times
		return nil
	})

	return result, err
}

// SyncSchedule inserts or refreshes a flight from the schedule feed. The
// status of a known flight is never touched.
func (s *flightService) SyncSchedule(ctx context.Context, in ScheduledFlight) error {
	if in.Ref == "" || len(in.Ref) > 64 {
		return &ValidationError{Field: "ref", Message: "schedule reference is required and must be at most 64 characters"}
	}

	ref := in.Ref
	flight := &models.Flight{Status: models.StatusScheduled, ScheduleRef: &ref}
	applyInput(flight, in.FlightInput)
	if err := checkFields(flight); err != nil {
		return err
	}
	if err := s.checkPlan(flight); err != nil {
		return err
	}

	if err := s.flights.UpsertFromSchedule(ctx, flight); err != nil {
		return fmt.Errorf("upsert scheduled flight: %w", err)
	}
	s.notifier.ScheduleSynced(ref, flight.Number)
	return nil
}
