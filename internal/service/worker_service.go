package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/lib/pq"
)

const (
	ReleaseDeactivated = "deactivated"
	ReleaseDeleted     = "deleted"
)

// WorkerReleased is raised inside the transaction that deactivates or
// deletes a worker. It is reported once that transaction commits.
type WorkerReleased struct {
	WorkerID uint
	Reason   string
}

// StationsReleased counts the stations a worker was detached from.
type StationsReleased struct {
	Desks int64
	Gates int64
}

type WorkerReleaseHandler interface {
	ReleaseWorker(ctx context.Context, ev WorkerReleased) (StationsReleased, error)
}

// WorkerUpdate holds the editable worker fields. Nil fields are left as they are.
type WorkerUpdate struct {
	FirstName  *string
	LastName   *string
	MiddleName *string
	Phone      *string
	Email      *string
	IsActive   *bool
	Roles      []string
}

type WorkerService interface {
	CreateWorker(ctx context.Context, worker *models.Worker) error
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	GetWorker(ctx context.Context, id uint) (*models.Worker, error)
	UpdateWorker(ctx context.Context, id uint, in WorkerUpdate) (*models.Worker, error)
	DeleteWorker(ctx context.Context, actorID, id uint) error
}

type workerService struct {
	tx       repository.Transactor
	workers  repository.WorkerRepository
	release  WorkerReleaseHandler
	notifier *Notifier
}

func NewWorkerService(tx repository.Transactor, workers repository.WorkerRepository, release WorkerReleaseHandler, notifier *Notifier) WorkerService {
	return &workerService{tx: tx, workers: workers, release: release, notifier: notifier}
}

// NormalizePhone strips everything but digits. The result must have 11 digits.
func NormalizePhone(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) != 11 {
		return "", &ValidationError{Field: "phone", Message: "phone must contain 11 digits, e.g. 79254717170"}
	}
	return digits, nil
}

func validateRoles(roles []string) error {
	for _, r := range roles {
		switch models.Role(r) {
		case models.RoleCheckInAgent, models.RoleBoardingAgent, models.RoleShiftLead, models.RoleAdministrator:
		default:
			return &ValidationError{Field: "roles", Message: fmt.Sprintf("unknown role %q", r)}
		}
	}
	return nil
}

func (s *workerService) CreateWorker(ctx context.Context, worker *models.Worker) error {
	phone, err := NormalizePhone(worker.Phone)
	if err != nil {
		return err
	}
	if err := validateRoles(worker.Roles); err != nil {
		return err
	}
	worker.Phone = phone
	if worker.Roles == nil {
		worker.Roles = pq.StringArray{}
	}

	if err := s.workers.Create(ctx, worker); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return &ValidationError{Field: "username", Message: "username is already taken"}
		}
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

func (s *workerService) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return s.workers.FindAll(ctx)
}

func (s *workerService) GetWorker(ctx context.Context, id uint) (*models.Worker, error) {
	w, err := s.workers.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWorkerNotFound)
	}
	return w, nil
}

func (s *workerService) UpdateWorker(ctx context.Context, id uint, in WorkerUpdate) (*models.Worker, error) {
	var (
		result   *models.Worker
		released *StationsReleased
	)

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := s.workers.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, ErrWorkerNotFound)
		}
		wasActive := w.IsActive

		if in.FirstName != nil {
			w.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			w.LastName = *in.LastName
		}
		if in.MiddleName != nil {
			w.MiddleName = in.MiddleName
		}
		if in.Email != nil {
			w.Email = *in.Email
		}
		if in.Phone != nil {
			phone, err := NormalizePhone(*in.Phone)
			if err != nil {
				return err
			}
			w.Phone = phone
		}
		if in.Roles != nil {
			if err := validateRoles(in.Roles); err != nil {
				return err
			}
			w.Roles = pq.StringArray(in.Roles)
		}
		if in.IsActive != nil {
			w.IsActive = *in.IsActive
		}

		if err := s.workers.Update(ctx, w); err != nil {
			return fmt.Errorf("update worker: %w", notFound(err, ErrWorkerNotFound))
		}

		if wasActive && !w.IsActive {
			r, err := s.release.ReleaseWorker(ctx, WorkerReleased{WorkerID: w.ID, Reason: ReleaseDeactivated})
			if err != nil {
				return err
			}
			released = &r
		}

		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	if released != nil {
		s.notifier.WorkerReleased(WorkerReleased{WorkerID: id, Reason: ReleaseDeactivated}, *released)
	}
	return result, nil
}

func (s *workerService) DeleteWorker(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelfDelete
	}

	ev := WorkerReleased{WorkerID: id, Reason: ReleaseDeleted}
	var released StationsReleased
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.workers.FindByIDForUpdate(ctx, id); err != nil {
			return notFound(err, ErrWorkerNotFound)
		}
		var err error
		if released, err = s.release.ReleaseWorker(ctx, ev); err != nil {
			return err
		}
		if err := s.workers.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete worker: %w", notFound(err, ErrWorkerNotFound))
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.WorkerReleased(ev, released)
	return nil
}
