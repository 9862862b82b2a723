package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
)

type PassengerInput struct {
	FlightID   uint
	FirstName  string
	LastName   string
	MiddleName *string
}

// PassengerUpdate holds the editable passenger fields. Nil fields are left
// as they are.
type PassengerUpdate struct {
	FlightID       *uint
	FirstName      *string
	LastName       *string
	MiddleName     *string
	CheckInPassed  *bool
	BoardingPassed *bool
	IsRemoved      *bool
}

type PassengerService interface {
	CreatePassenger(ctx context.Context, in PassengerInput) (*models.Passenger, error)
	ListPassengers(ctx context.Context, flightID *uint) ([]models.Passenger, error)
	GetPassenger(ctx context.Context, id uint) (*models.Passenger, error)
	UpdatePassenger(ctx context.Context, id uint, in PassengerUpdate) (*models.Passenger, error)
	DeletePassenger(ctx context.Context, id uint) error
}

type passengerService struct {
	tx         repository.Transactor
	passengers repository.PassengerRepository
	flights    repository.FlightRepository
}

func NewPassengerService(tx repository.Transactor, passengers repository.PassengerRepository, flights repository.FlightRepository) PassengerService {
	return &passengerService{tx: tx, passengers: passengers, flights: flights}
}

func checkNames(p *models.Passenger) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.MiddleName != nil {
		m := strings.TrimSpace(*p.MiddleName)
		if m == "" {
			p.MiddleName = nil
		} else {
			p.MiddleName = &m
		}
	}

	if err := fieldRules.Var(p.FirstName, "required,max=100"); err != nil {
		return &ValidationError{Field: "first_name", Message: "first name is required and must be at most 100 characters"}
	}
	if err := fieldRules.Var(p.LastName, "required,max=100"); err != nil {
		return &ValidationError{Field: "last_name", Message: "last name is required and must be at most 100 characters"}
	}
	if p.MiddleName != nil {
		if err := fieldRules.Var(*p.MiddleName, "max=100"); err != nil {
			return &ValidationError{Field: "middle_name", Message: "middle name must be at most 100 characters"}
		}
	}
	return nil
}

// lockFlight holds the flight row until commit so a concurrent DeleteFlight
// sees the passenger when it counts them.
func (s *passengerService) lockFlight(ctx context.Context, id uint) error {
	if _, err := s.flights.FindByIDForUpdate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ValidationError{Field: "flight_id", Message: "flight does not exist"}
		}
		return err
	}
	return nil
}

func unknownFlight(err error) error {
	if errors.Is(err, repository.ErrReferenced) {
		return &ValidationError{Field: "flight_id", Message: "flight does not exist"}
	}
	return err
}

// CreatePassenger adds a passenger to a flight. Check-in, boarding and
// removal flags always start cleared.
func (s *passengerService) CreatePassenger(ctx context.Context, in PassengerInput) (*models.Passenger, error) {
	p := &models.Passenger{
		FlightID:   in.FlightID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		MiddleName: in.MiddleName,
	}
	if err := checkNames(p); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockFlight(ctx, p.FlightID); err != nil {
			return err
		}
		if err := s.passengers.Create(ctx, p); err != nil {
			return fmt.Errorf("create passenger: %w", unknownFlight(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *passengerService) ListPassengers(ctx context.Context, flightID *uint) ([]models.Passenger, error) {
	return s.passengers.FindAll(ctx, flightID)
}

func (s *passengerService) GetPassenger(ctx context.Context, id uint) (*models.Passenger, error) {
	p, err := s.passengers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPassengerNotFound)
	}
	return p, nil
}

func (s *passengerService) UpdatePassenger(ctx context.Context, id uint, in PassengerUpdate) (*models.Passenger, error) {
	var result *models.Passenger

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.passengers.FindByID(ctx, id)
		if err != nil {
			return notFound(err, ErrPassengerNotFound)
		}

		if in.FirstName != nil {
			p.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			p.LastName = *in.LastName
		}
		if in.MiddleName != nil {
			p.MiddleName = in.MiddleName
		}
		if err := checkNames(p); err != nil {
			return err
		}
		if in.CheckInPassed != nil {
			p.CheckInPassed = *in.CheckInPassed
		}
		if in.BoardingPassed != nil {
			p.BoardingPassed = *in.BoardingPassed
		}
		if in.IsRemoved != nil {
			p.IsRemoved = *in.IsRemoved
		}
		if in.FlightID != nil && *in.FlightID != p.FlightID {
			if err := s.lockFlight(ctx, *in.FlightID); err != nil {
				return err
			}
			p.FlightID = *in.FlightID
		}

		if err := s.passengers.Update(ctx, p); err != nil {
			return fmt.Errorf("update passenger: %w", unknownFlight(notFound(err, ErrPassengerNotFound)))
		}
		result = p
		return nil
	})

	return result, err
}

func (s *passengerService) DeletePassenger(ctx context.Context, id uint) error {
	if err := s.passengers.Delete(ctx, id); err != nil {
		return notFound(err, ErrPassengerNotFound)
	}
	return nil
}
