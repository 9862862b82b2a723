package dto

import (
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
)

type FlightTimesResponse struct {
	CheckInOpenedAt  *time.Time `json:"check_in_opened_at"`
	CheckInClosedAt  *time.Time `json:"check_in_closed_at"`
	BoardingOpenedAt *time.Time `json:"boarding_opened_at"`
	BoardingClosedAt *time.Time `json:"boarding_closed_at"`
	ActualDeparture  *time.Time `json:"actual_departure"`
	ActualArrival    *time.Time `json:"actual_arrival"`
}

type FlightResponse struct {
	ID               uint                 `json:"id"`
	Number           string               `json:"number"`
	Aircraft         string               `json:"aircraft"`
	DepartureAirport string               `json:"departure_airport"`
	ArrivalAirport   string               `json:"arrival_airport"`
	PlannedDeparture *time.Time           `json:"planned_departure"`
	PlannedArrival   *time.Time           `json:"planned_arrival"`
	Status           string               `json:"status"`
	StatusCode       models.FlightStatus  `json:"status_code"`
	Times            *FlightTimesResponse `json:"times,omitempty"`
}

type StationResponse struct {
	ID       uint   `json:"id"`
	Number   string `json:"number"`
	WorkerID *uint  `json:"worker_id"`
	Worker   string `json:"worker,omitempty"`
	IsActive bool   `json:"is_active"`
}

type AssignmentResponse struct {
	ID        uint `json:"id"`
	StationID uint `json:"station_id"`
	FlightID  uint `json:"flight_id"`
	IsActive  bool `json:"is_active"`
}

type AssignedFlightResponse struct {
	AssignmentID uint           `json:"assignment_id"`
	IsActive     bool           `json:"is_active"`
	Flight       FlightResponse `json:"flight"`
}

type StationFlightsResponse struct {
	StationID uint                     `json:"station_id"`
	Assigned  []AssignedFlightResponse `json:"assigned"`
	Eligible  []FlightResponse         `json:"eligible"`
}

type ToggleResponse struct {
	Success      bool                 `json:"success"`
	Reason       string               `json:"reason,omitempty"`
	FlightStatus string               `json:"flight_status"`
	Times        *FlightTimesResponse `json:"times,omitempty"`
}

type WorkerResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	MiddleName  *string   `json:"middle_name,omitempty"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
}

type PassengerResponse struct {
	ID             uint      `json:"id"`
	FlightID       uint      `json:"flight_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	MiddleName     *string   `json:"middle_name,omitempty"`
	CheckInPassed  bool      `json:"check_in_passed"`
	BoardingPassed bool      `json:"boarding_passed"`
	IsRemoved      bool      `json:"is_removed"`
	CreatedAt      time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func ToFlightTimesResponse(t *models.FlightTimes) *FlightTimesResponse {
	if t == nil {
		return nil
	}
	return &FlightTimesResponse{
		CheckInOpenedAt:  t.CheckInOpenedAt,
		CheckInClosedAt:  t.CheckInClosedAt,
		BoardingOpenedAt: t.BoardingOpenedAt,
		BoardingClosedAt: t.BoardingClosedAt,
		ActualDeparture:  t.ActualDeparture,
		ActualArrival:    t.ActualArrival,
	}
}

func ToFlightResponse(f *models.Flight) FlightResponse {
	return FlightResponse{
		ID:               f.ID,
		Number:           f.Number,
		Aircraft:         f.Aircraft,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		PlannedDeparture: f.PlannedDeparture,
		PlannedArrival:   f.PlannedArrival,
		Status:           f.Status.String(),
		StatusCode:       f.Status,
		Times:            ToFlightTimesResponse(f.Times),
	}
}

func ToFlightResponses(flights []models.Flight) []FlightResponse {
	resp := make([]FlightResponse, len(flights))
	for i := range flights {
		resp[i] = ToFlightResponse(&flights[i])
	}
	return resp
}

func workerName(w *models.Worker) string {
	if w == nil {
		return ""
	}
	return w.LastName + " " + w.FirstName
}

func ToDeskResponse(d *models.CheckInDesk) StationResponse {
	return StationResponse{ID: d.ID, Number: d.Number, WorkerID: d.WorkerID, Worker: workerName(d.Worker), IsActive: d.IsActive}
}

func ToGateResponse(g *models.Gate) StationResponse {
	return StationResponse{ID: g.ID, Number: g.Number, WorkerID: g.WorkerID, Worker: workerName(g.Worker), IsActive: g.IsActive}
}

func ToAssignmentResponse(a *models.Assignment) AssignmentResponse {
	return AssignmentResponse{ID: a.ID, StationID: a.StationID, FlightID: a.FlightID, IsActive: a.IsActive}
}

func ToStationFlightsResponse(sf *service.StationFlights) StationFlightsResponse {
	resp := StationFlightsResponse{
		StationID: sf.StationID,
		Assigned:  make([]AssignedFlightResponse, len(sf.Assigned)),
		Eligible:  ToFlightResponses(sf.Eligible),
	}
	for i := range sf.Assigned {
		a := &sf.Assigned[i]
		resp.Assigned[i] = AssignedFlightResponse{AssignmentID: a.AssignmentID, IsActive: a.IsActive, Flight: ToFlightResponse(&a.Flight)}
	}
	return resp
}

func ToToggleResponse(r service.ToggleResult) ToggleResponse {
	return ToggleResponse{
		Success:      r.Success,
		Reason:       r.Reason,
		FlightStatus: r.Status.String(),
		Times:        ToFlightTimesResponse(r.Times),
	}
}

func ToWorkerResponse(w *models.Worker) WorkerResponse {
	return WorkerResponse{
		ID:          w.ID,
		Username:    w.Username,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		MiddleName:  w.MiddleName,
		Phone:       w.Phone,
		Email:       w.Email,
		IsActive:    w.IsActive,
		IsSuperuser: w.IsSuperuser,
		Roles:       []string(w.Roles),
		CreatedAt:   w.CreatedAt,
	}
}

func ToPassengerResponse(p *models.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:             p.ID,
		FlightID:       p.FlightID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		MiddleName:     p.MiddleName,
		CheckInPassed:  p.CheckInPassed,
		BoardingPassed: p.BoardingPassed,
		IsRemoved:      p.IsRemoved,
		CreatedAt:      p.CreatedAt,
	}
}
