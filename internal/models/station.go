package models

import "time"

type CheckInDesk struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"type:varchar(20);not null" json:"number"`
	WorkerID  *uint     `gorm:"uniqueIndex" json:"worker_id"`
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Worker *Worker `gorm:"foreignKey:WorkerID;constraint:OnDelete:RESTRICT" json:"worker,omitempty"`
}

type Gate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"type:varchar(20);not null" json:"number"`
	WorkerID  *uint     `gorm:"index" json:"worker_id"`
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Worker *Worker `gorm:"foreignKey:WorkerID;constraint:OnDelete:RESTRICT" json:"worker,omitempty"`
}

// DeskAssignment marks a desk as serving check-in for a flight. IsActive is
// independent of the desk's own flag.
type DeskAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeskID    uint      `gorm:"not null;uniqueIndex:idx_desk_flight" json:"desk_id"`
	FlightID  uint      `gorm:"not null;uniqueIndex:idx_desk_flight;index" json:"flight_id"`
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Desk   *CheckInDesk `gorm:"foreignKey:DeskID;constraint:OnDelete:RESTRICT" json:"desk,omitempty"`
	Flight *Flight      `gorm:"foreignKey:FlightID;constraint:OnDelete:RESTRICT" json:"flight,omitempty"`
}

type GateAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GateID    uint      `gorm:"not null;uniqueIndex:idx_gate_flight" json:"gate_id"`
	FlightID  uint      `gorm:"not null;uniqueIndex:idx_gate_flight;index" json:"flight_id"`
	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gate   *Gate   `gorm:"foreignKey:GateID;constraint:OnDelete:RESTRICT" json:"gate,omitempty"`
	Flight *Flight `gorm:"foreignKey:FlightID;constraint:OnDelete:RESTRICT" json:"flight,omitempty"`
}

// Assignment is the kind-agnostic view of a desk or gate assignment.
type Assignment struct {
	ID        uint
	StationID uint
	FlightID  uint
	IsActive  bool
}

func (a *DeskAssignment) View() *Assignment {
	return &Assignment{ID: a.ID, StationID: a.DeskID, FlightID: a.FlightID, IsActive: a.IsActive}
}

func (a *GateAssignment) View() *Assignment {
	return &Assignment{ID: a.ID, StationID: a.GateID, FlightID: a.FlightID, IsActive: a.IsActive}
}
