package models

import (
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleCheckInAgent  Role = "check_in_agent"
	RoleBoardingAgent Role = "boarding_agent"
	RoleShiftLead     Role = "shift_lead"
	RoleAdministrator Role = "administrator"
)

type Worker struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	FirstName   string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string         `gorm:"type:varchar(100);not null" json:"last_name"`
	MiddleName  *string        `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	Phone       string         `gorm:"type:varchar(11);not null" json:"phone"`
	Email       string         `gorm:"type:varchar(255)" json:"email"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	IsSuperuser bool           `gorm:"not null;default:false" json:"is_superuser"`
	Roles       pq.StringArray `gorm:"type:text[]" json:"roles"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (w *Worker) HasRole(roles ...Role) bool {
	for _, have := range w.Roles {
		for _, want := range roles {
			if Role(have) == want {
				return true
			}
		}
	}
	return false
}

type Passenger struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FlightID       uint      `gorm:"not null;index" json:"flight_id"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"last_name"`
	MiddleName     *string   `gorm:"type:varchar(100)" json:"middle_name,omitempty"`
	CheckInPassed  bool      `gorm:"not null;default:false" json:"check_in_passed"`
	BoardingPassed bool      `gorm:"not null;default:false" json:"boarding_passed"`
	IsRemoved      bool      `gorm:"not null;default:false" json:"is_removed"`
	CreatedAt      time.Time `json:"created_at"`

	Flight *Flight `gorm:"foreignKey:FlightID;constraint:OnDelete:RESTRICT" json:"-"`
}
