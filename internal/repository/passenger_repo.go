package repository

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/gorm"
)

type PassengerRepository interface {
	Create(ctx context.Context, p *models.Passenger) error
	FindByID(ctx context.Context, id uint) (*models.Passenger, error)
	FindAll(ctx context.Context, flightID *uint) ([]models.Passenger, error)
	Update(ctx context.Context, p *models.Passenger) error
	Delete(ctx context.Context, id uint) error
}

type passengerRepository struct {
	db *gorm.DB
}

func NewPassengerRepository(db *gorm.DB) PassengerRepository {
	return &passengerRepository{db: db}
}

func (r *passengerRepository) Create(ctx context.Context, p *models.Passenger) error {
	return translateError(conn(ctx, r.db).Omit("Flight").Create(p).Error)
}

func (r *passengerRepository) FindByID(ctx context.Context, id uint) (*models.Passenger, error) {
	var p models.Passenger
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *passengerRepository) FindAll(ctx context.Context, flightID *uint) ([]models.Passenger, error) {
	q := conn(ctx, r.db).Order("last_name ASC, first_name ASC, id ASC")
	if flightID != nil {
		q = q.Where("flight_id = ?", *flightID)
	}

	var passengers []models.Passenger
	if err := q.Find(&passengers).Error; err != nil {
		return nil, err
	}
	return passengers, nil
}

func (r *passengerRepository) Update(ctx context.Context, p *models.Passenger) error {
	res := conn(ctx, r.db).
		Model(&models.Passenger{ID: p.ID}).
		Select("flight_id", "first_name", "last_name", "middle_name", "check_in_passed", "boarding_passed", "is_removed").
		Updates(p)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *passengerRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Passenger{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
