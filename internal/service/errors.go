package service

import (
	"errors"

	"github.com/Eursukkul/airport-ground-ops/internal/repository"
)

var (
	ErrFlightNotFound     = errors.New("flight not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrDeskNotFound       = errors.New("check-in desk not found")
	ErrGateNotFound       = errors.New("gate not found")
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrPassengerNotFound  = errors.New("passenger not found")

	ErrDeskInUse           = errors.New("check-in desk still has flights assigned")
	ErrGateInUse           = errors.New("gate still has flights assigned")
	ErrFlightHasPassengers = errors.New("flight still has passengers")
	ErrFlightInUse         = errors.New("flight is still assigned to desks or gates")
	ErrAlreadyAssigned     = errors.New("flight is already assigned here")
	ErrWorkerOwnsDesk      = errors.New("worker already staffs another check-in desk")
	ErrStationUnstaffed    = errors.New("no worker is assigned here")
	ErrFlightNotEligible   = errors.New("flight cannot be assigned here in its current status")
	ErrSelfDelete          = errors.New("you cannot delete yourself")
)

// ValidationError is an input problem tied to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// notFound replaces repository.ErrNotFound with the caller's sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
