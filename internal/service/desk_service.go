package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/airport-ground-ops/internal/eligibility"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
)

// StationInput holds the editable fields of a desk or gate.
type StationInput struct {
	Number   string
	WorkerID *uint
	IsActive bool
}

type AssignedFlight struct {
	AssignmentID uint
	IsActive     bool
	Flight       models.Flight
}

// StationFlights lists what a desk or gate serves and what it could serve.
type StationFlights struct {
	StationID uint
	WorkerID  *uint
	Assigned  []AssignedFlight
	Eligible  []models.Flight
}

type DeskService interface {
	CreateDesk(ctx context.Context, in StationInput) (*models.CheckInDesk, error)
	ListDesks(ctx context.Context, ownerID *uint) ([]models.CheckInDesk, error)
	GetDesk(ctx context.Context, id uint) (*models.CheckInDesk, error)
	UpdateDesk(ctx context.Context, id uint, in StationInput) (*models.CheckInDesk, error)
	DeleteDesk(ctx context.Context, id uint) error
	DeskFlights(ctx context.Context, id uint) (*StationFlights, error)
}

type deskService struct {
	desks   repository.DeskRepository
	workers repository.WorkerRepository
	rules   *eligibility.Rules
}

func NewDeskService(desks repository.DeskRepository, workers repository.WorkerRepository, rules *eligibility.Rules) DeskService {
	return &deskService{desks: desks, workers: workers, rules: rules}
}

// loadWorker resolves an optional worker reference for a station form.
func loadWorker(ctx context.Context, workers repository.WorkerRepository, id *uint) (*models.Worker, error) {
	if id == nil {
		return nil, nil
	}
	w, err := workers.FindByID(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &ValidationError{Field: "worker_id", Message: "worker does not exist"}
	}
	return w, err
}

// checkDeskWorker validates the worker for desk deskID (0 for a new desk).
func (s *deskService) checkDeskWorker(ctx context.Context, deskID uint, workerID *uint) error {
	w, err := loadWorker(ctx, s.workers, workerID)
	if err != nil || w == nil {
		return err
	}
	if err := eligibility.CheckWorkerForDesk(w); err != nil {
		return err
	}

	owned, err := s.desks.FindByWorker(ctx, w.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return err
	case owned.ID != deskID:
		return ErrWorkerOwnsDesk
	}
	return nil
}

func (s *deskService) CreateDesk(ctx context.Context, in StationInput) (*models.CheckInDesk, error) {
	if err := s.checkDeskWorker(ctx, 0, in.WorkerID); err != nil {
		return nil, err
	}

	desk := &models.CheckInDesk{Number: in.Number, WorkerID: in.WorkerID, IsActive: in.IsActive}
	if err := s.desks.Create(ctx, desk); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWorkerOwnsDesk
		}
		return nil, fmt.Errorf("create desk: %w", err)
	}
	return desk, nil
}

func (s *deskService) ListDesks(ctx context.Context, ownerID *uint) ([]models.CheckInDesk, error) {
	return s.desks.FindAll(ctx, ownerID)
}

func (s *deskService) GetDesk(ctx context.Context, id uint) (*models.CheckInDesk, error) {
	desk, err := s.desks.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDeskNotFound)
	}
	return desk, nil
}

func (s *deskService) UpdateDesk(ctx context.Context, id uint, in StationInput) (*models.CheckInDesk, error) {
	desk, err := s.GetDesk(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDeskWorker(ctx, id, in.WorkerID); err != nil {
		return nil, err
	}

	desk.Number = in.Number
	desk.WorkerID = in.WorkerID
	desk.IsActive = in.IsActive
	desk.Worker = nil
	if err := s.desks.Update(ctx, desk); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWorkerOwnsDesk
		}
		return nil, fmt.Errorf("update desk: %w", notFound(err, ErrDeskNotFound))
	}
	return desk, nil
}

func (s *deskService) DeleteDesk(ctx context.Context, id uint) error {
	n, err := s.desks.CountAssignments(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrDeskInUse
	}

	err = s.desks.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrReferenced):
		return ErrDeskInUse
	case err != nil:
		return notFound(err, ErrDeskNotFound)
	}
	return nil
}

func (s *deskService) DeskFlights(ctx context.Context, id uint) (*StationFlights, error) {
	desk, err := s.GetDesk(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.desks.FindAssignmentsByDesk(ctx, id)
	if err != nil {
		return nil, err
	}
	eligible, err := s.rules.EligibleFlightsForDesk(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &StationFlights{StationID: desk.ID, WorkerID: desk.WorkerID, Eligible: eligible}
	for _, a := range list {
		if a.Flight == nil {
			continue
		}
		out.Assigned = append(out.Assigned, AssignedFlight{AssignmentID: a.ID, IsActive: a.IsActive, Flight: *a.Flight})
	}
	return out, nil
}
