package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/airport-ground-ops/internal/eligibility"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
)

type GateService interface {
	CreateGate(ctx context.Context, in StationInput) (*models.Gate, error)
	ListGates(ctx context.Context, ownerID *uint) ([]models.Gate, error)
	GetGate(ctx context.Context, id uint) (*models.Gate, error)
	UpdateGate(ctx context.Context, id uint, in StationInput) (*models.Gate, error)
	DeleteGate(ctx context.Context, id uint) error
	GateFlights(ctx context.Context, id uint) (*StationFlights, error)
}

type gateService struct {
	gates   repository.GateRepository
	workers repository.WorkerRepository
	rules   *eligibility.Rules
}

func NewGateService(gates repository.GateRepository, workers repository.WorkerRepository, rules *eligibility.Rules) GateService {
	return &gateService{gates: gates, workers: workers, rules: rules}
}

func (s *gateService) checkGateWorker(ctx context.Context, workerID *uint) error {
	w, err := loadWorker(ctx, s.workers, workerID)
	if err != nil || w == nil {
		return err
	}
	return eligibility.CheckWorkerForGate(w)
}

func (s *gateService) CreateGate(ctx context.Context, in StationInput) (*models.Gate, error) {
	if err := s.checkGateWorker(ctx, in.WorkerID); err != nil {
		return nil, err
	}

	gate := &models.Gate{Number: in.Number, WorkerID: in.WorkerID, IsActive: in.IsActive}
	if err := s.gates.Create(ctx, gate); err != nil {
		return nil, fmt.Errorf("create gate: %w", err)
	}
	return gate, nil
}

func (s *gateService) ListGates(ctx context.Context, ownerID *uint) ([]models.Gate, error) {
	return s.gates.FindAll(ctx, ownerID)
}

func (s *gateService) GetGate(ctx context.Context, id uint) (*models.Gate, error) {
	gate, err := s.gates.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrGateNotFound)
	}
	return gate, nil
}

func (s *gateService) UpdateGate(ctx context.Context, id uint, in StationInput) (*models.Gate, error) {
	gate, err := s.GetGate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkGateWorker(ctx, in.WorkerID); err != nil {
		return nil, err
	}

	gate.Number = in.Number
	gate.WorkerID = in.WorkerID
	gate.IsActive = in.IsActive
	gate.Worker = nil
	if err := s.gates.Update(ctx, gate); err != nil {
		return nil, fmt.Errorf("update gate: %w", notFound(err, ErrGateNotFound))
	}
	return gate, nil
}

func (s *gateService) DeleteGate(ctx context.Context, id uint) error {
	n, err := s.gates.CountAssignments(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrGateInUse
	}

	err = s.gates.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrReferenced):
		return ErrGateInUse
	case err != nil:
		return notFound(err, ErrGateNotFound)
	}
	return nil
}

func (s *gateService) GateFlights(ctx context.Context, id uint) (*StationFlights, error) {
	gate, err := s.GetGate(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.gates.FindAssignmentsByGate(ctx, id)
	if err != nil {
		return nil, err
	}
	eligible, err := s.rules.EligibleFlightsForGate(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &StationFlights{StationID: gate.ID, WorkerID: gate.WorkerID, Eligible: eligible}
	for _, a := range list {
		if a.Flight == nil {
			continue
		}
		out.Assigned = append(out.Assigned, AssignedFlight{AssignmentID: a.ID, IsActive: a.IsActive, Flight: *a.Flight})
	}
	return out, nil
}
