package dto

import "time"

type FlightRequest struct {
	Number           string     `json:"number" validate:"required,max=10"`
	Aircraft         string     `json:"aircraft" validate:"required,max=20"`
	DepartureAirport string     `json:"departure_airport" validate:"required,len=3,alpha"`
	ArrivalAirport   string     `json:"arrival_airport" validate:"required,len=3,alpha"`
	PlannedDeparture *time.Time `json:"planned_departure"`
	PlannedArrival   *time.Time `json:"planned_arrival"`
}

type FlightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled departed arrived delayed cancelled"`
}

type FlightTimesRequest struct {
	ActualDeparture *time.Time `json:"actual_departure"`
	ActualArrival   *time.Time `json:"actual_arrival"`
}

type StationRequest struct {
	Number   string `json:"number" validate:"required,max=20"`
	WorkerID *uint  `json:"worker_id"`
	IsActive bool   `json:"is_active"`
}

type AssignFlightRequest struct {
	FlightID uint `json:"flight_id" validate:"required"`
	IsActive bool `json:"is_active"`
}

type ToggleRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CreateWorkerRequest struct {
	Username    string   `json:"username" validate:"required,max=150"`
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"required,max=100"`
	MiddleName  *string  `json:"middle_name" validate:"omitempty,max=100"`
	Phone       string   `json:"phone" validate:"required"`
	Email       string   `json:"email" validate:"omitempty,email"`
	IsActive    *bool    `json:"is_active"`
	IsSuperuser bool     `json:"is_superuser"`
	Roles       []string `json:"roles" validate:"dive,oneof=check_in_agent boarding_agent shift_lead administrator"`
}

type UpdateWorkerRequest struct {
	FirstName  *string  `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string  `json:"last_name" validate:"omitempty,max=100"`
	MiddleName *string  `json:"middle_name" validate:"omitempty,max=100"`
	Phone      *string  `json:"phone"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	IsActive   *bool    `json:"is_active"`
	Roles      []string `json:"roles" validate:"omitempty,dive,oneof=check_in_agent boarding_agent shift_lead administrator"`
}

type CreatePassengerRequest struct {
	FlightID   uint    `json:"flight_id" validate:"required"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=100"`
}

type UpdatePassengerRequest struct {
	FlightID       *uint   `json:"flight_id" validate:"omitempty,min=1"`
	FirstName      *string `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,max=100"`
	MiddleName     *string `json:"middle_name" validate:"omitempty,max=100"`
	CheckInPassed  *bool   `json:"check_in_passed"`
	BoardingPassed *bool   `json:"boarding_passed"`
	IsRemoved      *bool   `json:"is_removed"`
}
