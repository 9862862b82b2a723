package repository

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkerRepository interface {
	Create(ctx context.Context, worker *models.Worker) error
	FindByID(ctx context.Context, id uint) (*models.Worker, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Worker, error)
	FindAll(ctx context.Context) ([]models.Worker, error)
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, id uint) error
}

type workerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &workerRepository{db: db}
}

func (r *workerRepository) Create(ctx context.Context, worker *models.Worker) error {
	return translateError(conn(ctx, r.db).Create(worker).Error)
}

func (r *workerRepository) FindByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := conn(ctx, r.db).First(&worker, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &worker, nil
}

func (r *workerRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&worker, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &worker, nil
}

func (r *workerRepository) FindAll(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	if err := conn(ctx, r.db).Order("last_name ASC, first_name ASC, id ASC").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

func (r *workerRepository) Update(ctx context.Context, worker *models.Worker) error {
	res := conn(ctx, r.db).
		Model(&models.Worker{ID: worker.ID}).
		Select("first_name", "last_name", "middle_name", "phone", "email", "is_active", "is_superuser", "roles").
		Updates(worker)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *workerRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Worker{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
