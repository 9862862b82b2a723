// Package auth maps workers' roles to the permissions checked by the HTTP
// layer and reads the bearer tokens issued by the identity service.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

type Permission string

const (
	FlightView         Permission = "flight.view"
	FlightAdd          Permission = "flight.add"
	FlightChange       Permission = "flight.change"
	FlightChangeStatus Permission = "flight.change_status"
	FlightDelete       Permission = "flight.delete"
	FlightTimesChange  Permission = "flighttimes.change"

	DeskView    Permission = "checkindesk.view"
	DeskViewOwn Permission = "checkindesk.view_own"
	DeskAdd     Permission = "checkindesk.add"
	DeskChange  Permission = "checkindesk.change"
	DeskDelete  Permission = "checkindesk.delete"

	GateView    Permission = "gate.view"
	GateViewOwn Permission = "gate.view_own"
	GateAdd     Permission = "gate.add"
	GateChange  Permission = "gate.change"
	GateDelete  Permission = "gate.delete"

	DeskAssignmentView   Permission = "deskassignment.view"
	DeskAssignmentAdd    Permission = "deskassignment.add"
	DeskAssignmentChange Permission = "deskassignment.change"
	DeskAssignmentDelete Permission = "deskassignment.delete"

	GateAssignmentView   Permission = "gateassignment.view"
	GateAssignmentAdd    Permission = "gateassignment.add"
	GateAssignmentChange Permission = "gateassignment.change"
	GateAssignmentDelete Permission = "gateassignment.delete"

	WorkerView   Permission = "worker.view"
	WorkerAdd    Permission = "worker.add"
	WorkerChange Permission = "worker.change"
	WorkerDelete Permission = "worker.delete"

	PassengerView           Permission = "passenger.view"
	PassengerAdd            Permission = "passenger.add"
	PassengerChange         Permission = "passenger.change"
	PassengerCheckInChange  Permission = "passenger.change_check_in_passed"
	PassengerBoardingChange Permission = "passenger.change_boarding_passed"
	PassengerDelete         Permission = "passenger.delete"
)

// Actor is the authenticated worker behind a request.
type Actor struct {
	WorkerID  uint
	Roles     []string
	Superuser bool
}

var shiftLead = []Permission{
	FlightView, FlightAdd, FlightChange, FlightChangeStatus, FlightDelete, FlightTimesChange,
	DeskView, DeskViewOwn, DeskAdd, DeskChange, DeskDelete,
	GateView, GateViewOwn, GateAdd, GateChange, GateDelete,
	DeskAssignmentView, DeskAssignmentAdd, DeskAssignmentChange, DeskAssignmentDelete,
	GateAssignmentView, GateAssignmentAdd, GateAssignmentChange, GateAssignmentDelete,
	PassengerView, PassengerAdd, PassengerChange, PassengerCheckInChange, PassengerBoardingChange, PassengerDelete,
	WorkerView,
}

var defaultGrants = map[models.Role][]Permission{
	models.RoleCheckInAgent: {
		FlightView, DeskViewOwn, DeskAssignmentView, DeskAssignmentChange,
		PassengerView, PassengerCheckInChange,
	},
	models.RoleBoardingAgent: {
		FlightView, GateViewOwn, GateAssignmentView, GateAssignmentChange,
		PassengerView, PassengerBoardingChange,
	},
	models.RoleShiftLead:     shiftLead,
	models.RoleAdministrator: append(append([]Permission{}, shiftLead...), WorkerAdd, WorkerChange, WorkerDelete),
}

type Authorizer struct {
	grants map[models.Role]map[Permission]struct{}
}

func NewAuthorizer() *Authorizer {
	a := &Authorizer{grants: map[models.Role]map[Permission]struct{}{}}
	for role, perms := range defaultGrants {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		a.grants[role] = set
	}
	return a
}

// HasPermission reports whether any of the actor's roles grants perm.
// Superusers hold every permission.
func (a *Authorizer) HasPermission(actor Actor, perm Permission) bool {
	if actor.Superuser {
		return true
	}
	for _, r := range actor.Roles {
		if _, ok := a.grants[models.Role(r)][perm]; ok {
			return true
		}
	}
	return false
}

// Claims is the payload of an access token. Subject holds the worker id.
type Claims struct {
	Roles     []string `json:"roles"`
	Superuser bool     `json:"superuser"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid or expired token")

// ParseToken verifies an HS256 token and returns its actor.
func ParseToken(raw string, secret []byte) (Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Actor{}, ErrInvalidToken
	}
	return Actor{WorkerID: uint(id), Roles: claims.Roles, Superuser: claims.Superuser}, nil
}

// NewToken signs a token for actor valid for ttl.
func NewToken(actor Actor, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles:     actor.Roles,
		Superuser: actor.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(actor.WorkerID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
