package models

import "time"

type FlightStatus int

const (
	StatusScheduled      FlightStatus = 1
	StatusCheckInOpen    FlightStatus = 2
	StatusCheckInClosed  FlightStatus = 3
	StatusBoardingOpen   FlightStatus = 4
	StatusBoardingClosed FlightStatus = 5
	StatusDeparted       FlightStatus = 6
	StatusArrived        FlightStatus = 7
	StatusDelayed        FlightStatus = 8
	StatusCancelled      FlightStatus = 9
)

var statusNames = map[FlightStatus]string{
	StatusScheduled:      "scheduled",
	StatusCheckInOpen:    "check_in_open",
	StatusCheckInClosed:  "check_in_closed",
	StatusBoardingOpen:   "boarding_open",
	StatusBoardingClosed: "boarding_closed",
	StatusDeparted:       "departed",
	StatusArrived:        "arrived",
	StatusDelayed:        "delayed",
	StatusCancelled:      "cancelled",
}

func (s FlightStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s FlightStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseFlightStatus accepts the snake_case name of a status.
func ParseFlightStatus(name string) (FlightStatus, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

type Flight struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Number           string       `gorm:"type:varchar(10);not null;index" json:"number"`
	Aircraft         string       `gorm:"type:varchar(20);not null" json:"aircraft"`
	DepartureAirport string       `gorm:"type:char(3);not null" json:"departure_airport"`
	ArrivalAirport   string       `gorm:"type:char(3);not null" json:"arrival_airport"`
	PlannedDeparture *time.Time   `json:"planned_departure,omitempty"`
	PlannedArrival   *time.Time   `json:"planned_arrival,omitempty"`
	Status           FlightStatus `gorm:"not null;default:1;index" json:"status"`
	ScheduleRef      *string      `gorm:"type:varchar(64);uniqueIndex" json:"schedule_ref,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	Times *FlightTimes `gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE" json:"times,omitempty"`
}

// FlightTimes is created lazily on the first desk or gate toggle of a flight.
type FlightTimes struct {
	FlightID         uint       `gorm:"primaryKey;autoIncrement:false" json:"flight_id"`
	CheckInOpenedAt  *time.Time `json:"check_in_opened_at"`
	CheckInClosedAt  *time.Time `json:"check_in_closed_at"`
	BoardingOpenedAt *time.Time `json:"boarding_opened_at"`
	BoardingClosedAt *time.Time `json:"boarding_closed_at"`
	ActualDeparture  *time.Time `json:"actual_departure"`
	ActualArrival    *time.Time `json:"actual_arrival"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
