package repository

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/gorm"
)

type DeskRepository interface {
	Create(ctx context.Context, desk *models.CheckInDesk) error
	FindByID(ctx context.Context, id uint) (*models.CheckInDesk, error)
	FindAll(ctx context.Context, workerID *uint) ([]models.CheckInDesk, error)
	FindByWorker(ctx context.Context, workerID uint) (*models.CheckInDesk, error)
	Update(ctx context.Context, desk *models.CheckInDesk) error
	Delete(ctx context.Context, id uint) error
	CountAssignments(ctx context.Context, deskID uint) (int64, error)
	ReleaseWorker(ctx context.Context, workerID uint) (int64, error)

	CreateAssignment(ctx context.Context, a *models.DeskAssignment) error
	FindAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	FindAssignmentsByDesk(ctx context.Context, deskID uint) ([]models.DeskAssignment, error)
	SetAssignmentActive(ctx context.Context, id uint, active bool) error
	CountActiveAssignments(ctx context.Context, flightID uint) (int64, error)
	DeleteAssignment(ctx context.Context, id uint) error
}

type deskRepository struct {
	db *gorm.DB
}

func NewDeskRepository(db *gorm.DB) DeskRepository {
	return &deskRepository{db: db}
}

func (r *deskRepository) Create(ctx context.Context, desk *models.CheckInDesk) error {
	return translateError(conn(ctx, r.db).Omit("Worker").Create(desk).Error)
}

func (r *deskRepository) FindByID(ctx context.Context, id uint) (*models.CheckInDesk, error) {
	var desk models.CheckInDesk
	if err := conn(ctx, r.db).Preload("Worker").First(&desk, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &desk, nil
}

func (r *deskRepository) FindAll(ctx context.Context, workerID *uint) ([]models.CheckInDesk, error) {
	var desks []models.CheckInDesk
	q := conn(ctx, r.db).Preload("Worker")
	if workerID != nil {
		q = q.Where("worker_id = ?", *workerID)
	}
	if err := q.Order("number ASC").Find(&desks).Error; err != nil {
		return nil, err
	}
	return desks, nil
}

func (r *deskRepository) FindByWorker(ctx context.Context, workerID uint) (*models.CheckInDesk, error) {
	var desk models.CheckInDesk
	if err := conn(ctx, r.db).Where("worker_id = ?", workerID).First(&desk).Error; err != nil {
		return nil, translateError(err)
	}
	return &desk, nil
}

func (r *deskRepository) Update(ctx context.Context, desk *models.CheckInDesk) error {
	res := conn(ctx, r.db).
		Model(&models.CheckInDesk{ID: desk.ID}).
		Select("number", "worker_id", "is_active").
		Updates(desk)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *deskRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.CheckInDesk{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *deskRepository) CountAssignments(ctx context.Context, deskID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.DeskAssignment{}).Where("desk_id = ?", deskID).Count(&count).Error
	return count, err
}

// ReleaseWorker detaches the worker from the desk it owns and deactivates it.
func (r *deskRepository) ReleaseWorker(ctx context.Context, workerID uint) (int64, error) {
	res := conn(ctx, r.db).
		Model(&models.CheckInDesk{}).
		Where("worker_id = ?", workerID).
		Updates(map[string]interface{}{"worker_id": nil, "is_active": false})
	return res.RowsAffected, res.Error
}

func (r *deskRepository) CreateAssignment(ctx context.Context, a *models.DeskAssignment) error {
	return translateError(conn(ctx, r.db).Omit("Desk", "Flight").Create(a).Error)
}

func (r *deskRepository) FindAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.DeskAssignment
	if err := conn(ctx, r.db).First(&a, id).Error; err != nil {
		return nil, translateError(err)
	}
	return a.View(), nil
}

func (r *deskRepository) FindAssignmentsByDesk(ctx context.Context, deskID uint) ([]models.DeskAssignment, error) {
	var list []models.DeskAssignment
	err := conn(ctx, r.db).
		Preload("Flight").
		Where("desk_id = ?", deskID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *deskRepository) SetAssignmentActive(ctx context.Context, id uint, active bool) error {
	res := conn(ctx, r.db).
		Model(&models.DeskAssignment{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *deskRepository) CountActiveAssignments(ctx context.Context, flightID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.DeskAssignment{}).
		Where("flight_id = ? AND is_active = ?", flightID, true).
		Count(&count).Error
	return count, err
}

func (r *deskRepository) DeleteAssignment(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.DeskAssignment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
