package repository

import (
	"context"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *models.Flight) error
	FindByID(ctx context.Context, id uint) (*models.Flight, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Flight, error)
	FindAll(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error)
	FindNotAssignedToDesk(ctx context.Context, deskID uint) ([]models.Flight, error)
	FindNotAssignedToGate(ctx context.Context, gateID uint) ([]models.Flight, error)
	UpdatePlan(ctx context.Context, flight *models.Flight) error
	UpdateStatus(ctx context.Context, id uint, status models.FlightStatus) error
	UpsertFromSchedule(ctx context.Context, flight *models.Flight) error
	Delete(ctx context.Context, id uint) error
	CountPassengers(ctx context.Context, id uint) (int64, error)
	CountAssignments(ctx context.Context, id uint) (int64, error)
	GetOrCreateTimes(ctx context.Context, flightID uint) (*models.FlightTimes, error)
	SaveTimes(ctx context.Context, times *models.FlightTimes) error
}

type flightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) FlightRepository {
	return &flightRepository{db: db}
}

func (r *flightRepository) Create(ctx context.Context, flight *models.Flight) error {
	return translateError(conn(ctx, r.db).Omit("Times").Create(flight).Error)
}

func (r *flightRepository) FindByID(ctx context.Context, id uint) (*models.Flight, error) {
	var flight models.Flight
	if err := conn(ctx, r.db).Preload("Times").First(&flight, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &flight, nil
}

// FindByIDForUpdate locks the flight row until the surrounding transaction
// ends. Toggles of sibling assignments serialize on this lock.
func (r *flightRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Flight, error) {
	var flight models.Flight
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&flight, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &flight, nil
}

func (r *flightRepository) FindAll(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error) {
	var flights []models.Flight
	q := conn(ctx, r.db)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Order("planned_departure ASC NULLS LAST, id ASC").Find(&flights).Error; err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *flightRepository) FindNotAssignedToDesk(ctx context.Context, deskID uint) ([]models.Flight, error) {
	db := conn(ctx, r.db)
	assigned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.DeskAssignment{}).Select("flight_id").Where("desk_id = ?", deskID)

	var flights []models.Flight
	err := db.Where("id NOT IN (?)", assigned).
		Order("planned_departure ASC NULLS LAST, id ASC").
		Find(&flights).Error
	return flights, err
}

func (r *flightRepository) FindNotAssignedToGate(ctx context.Context, gateID uint) ([]models.Flight, error) {
	db := conn(ctx, r.db)
	assigned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.GateAssignment{}).Select("flight_id").Where("gate_id = ?", gateID)

	var flights []models.Flight
	err := db.Where("id NOT IN (?)", assigned).
		Order("planned_departure ASC NULLS LAST, id ASC").
		Find(&flights).Error
	return flights, err
}

// UpdatePlan writes the schedule fields. Status is never written here.
func (r *flightRepository) UpdatePlan(ctx context.Context, flight *models.Flight) error {
	res := conn(ctx, r.db).
		Model(&models.Flight{ID: flight.ID}).
		Select("number", "aircraft", "departure_airport", "arrival_airport", "planned_departure", "planned_arrival").
		Updates(flight)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *flightRepository) UpdateStatus(ctx context.Context, id uint, status models.FlightStatus) error {
	res := conn(ctx, r.db).
		Model(&models.Flight{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertFromSchedule inserts a flight from the schedule feed or refreshes the
// plan of the flight with the same schedule reference. Status is kept.
func (r *flightRepository) UpsertFromSchedule(ctx context.Context, flight *models.Flight) error {
	return translateError(conn(ctx, r.db).Omit("Times").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "schedule_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{"number", "aircraft", "departure_airport", "arrival_airport", "planned_departure", "planned_arrival", "updated_at"}),
	}).Create(flight).Error)
}

func (r *flightRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Flight{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *flightRepository) CountPassengers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Passenger{}).Where("flight_id = ?", id).Count(&count).Error
	return count, err
}

func (r *flightRepository) CountAssignments(ctx context.Context, id uint) (int64, error) {
	db := conn(ctx, r.db)
	var desks, gates int64
	if err := db.Model(&models.DeskAssignment{}).Where("flight_id = ?", id).Count(&desks).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.GateAssignment{}).Where("flight_id = ?", id).Count(&gates).Error; err != nil {
		return 0, err
	}
	return desks + gates, nil
}

func (r *flightRepository) GetOrCreateTimes(ctx context.Context, flightID uint) (*models.FlightTimes, error) {
	times := models.FlightTimes{FlightID: flightID}
	if err := conn(ctx, r.db).Where(models.FlightTimes{FlightID: flightID}).FirstOrCreate(&times).Error; err != nil {
		return nil, translateError(err)
	}
	return &times, nil
}

func (r *flightRepository) SaveTimes(ctx context.Context, times *models.FlightTimes) error {
	return translateError(conn(ctx, r.db).Save(times).Error)
}
