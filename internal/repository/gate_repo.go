package repository

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/gorm"
)

type GateRepository interface {
	Create(ctx context.Context, gate *models.Gate) error
	FindByID(ctx context.Context, id uint) (*models.Gate, error)
	FindAll(ctx context.Context, workerID *uint) ([]models.Gate, error)
	Update(ctx context.Context, gate *models.Gate) error
	Delete(ctx context.Context, id uint) error
	CountAssignments(ctx context.Context, gateID uint) (int64, error)
	ReleaseWorker(ctx context.Context, workerID uint) (int64, error)

	CreateAssignment(ctx context.Context, a *models.GateAssignment) error
	FindAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	FindAssignmentsByGate(ctx context.Context, gateID uint) ([]models.GateAssignment, error)
	SetAssignmentActive(ctx context.Context, id uint, active bool) error
	CountActiveAssignments(ctx context.Context, flightID uint) (int64, error)
	DeleteAssignment(ctx context.Context, id uint) error
}

type gateRepository struct {
	db *gorm.DB
}

func NewGateRepository(db *gorm.DB) GateRepository {
	return &gateRepository{db: db}
}

func (r *gateRepository) Create(ctx context.Context, gate *models.Gate) error {
	return translateError(conn(ctx, r.db).Omit("Worker").Create(gate).Error)
}

func (r *gateRepository) FindByID(ctx context.Context, id uint) (*models.Gate, error) {
	var gate models.Gate
	if err := conn(ctx, r.db).Preload("Worker").First(&gate, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &gate, nil
}

func (r *gateRepository) FindAll(ctx context.Context, workerID *uint) ([]models.Gate, error) {
	var gates []models.Gate
	q := conn(ctx, r.db).Preload("Worker")
	if workerID != nil {
		q = q.Where("worker_id = ?", *workerID)
	}
	if err := q.Order("number ASC").Find(&gates).Error; err != nil {
		return nil, err
	}
	return gates, nil
}

func (r *gateRepository) Update(ctx context.Context, gate *models.Gate) error {
	res := conn(ctx, r.db).
		Model(&models.Gate{ID: gate.ID}).
		Select("number", "worker_id", "is_active").
		Updates(gate)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gateRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Gate{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gateRepository) CountAssignments(ctx context.Context, gateID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.GateAssignment{}).Where("gate_id = ?", gateID).Count(&count).Error
	return count, err
}

// ReleaseWorker detaches the worker from every gate it owns and deactivates them.
func (r *gateRepository) ReleaseWorker(ctx context.Context, workerID uint) (int64, error) {
	res := conn(ctx, r.db).
		Model(&models.Gate{}).
		Where("worker_id = ?", workerID).
		Updates(map[string]interface{}{"worker_id": nil, "is_active": false})
	return res.RowsAffected, res.Error
}

func (r *gateRepository) CreateAssignment(ctx context.Context, a *models.GateAssignment) error {
	return translateError(conn(ctx, r.db).Omit("Gate", "Flight").Create(a).Error)
}

func (r *gateRepository) FindAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var a models.GateAssignment
	if err := conn(ctx, r.db).First(&a, id).Error; err != nil {
		return nil, translateError(err)
	}
	return a.View(), nil
}

func (r *gateRepository) FindAssignmentsByGate(ctx context.Context, gateID uint) ([]models.GateAssignment, error) {
	var list []models.GateAssignment
	err := conn(ctx, r.db).
		Preload("Flight").
		Where("gate_id = ?", gateID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *gateRepository) SetAssignmentActive(ctx context.Context, id uint, active bool) error {
	res := conn(ctx, r.db).
		Model(&models.GateAssignment{}).
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

func (r *gateRepository) CountActiveAssignments(ctx context.Context, flightID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.GateAssignment{}).
		Where("flight_id = ? AND is_active = ?", flightID, true).
		Count(&count).Error
	return count, err
}

func (r *gateRepository) DeleteAssignment(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.GateAssignment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
