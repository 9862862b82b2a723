package handler

import (
	"net/http"
	"strconv"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/dto"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

type PassengerHandler struct {
	svc service.PassengerService
	az  *auth.Authorizer
}

func NewPassengerHandler(svc service.PassengerService, az *auth.Authorizer) *PassengerHandler {
	return &PassengerHandler{svc: svc, az: az}
}

func (h *PassengerHandler) RegisterRoutes(g *echo.Group) {
	require := func(p ...auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p...) }

	g.GET("/passengers", h.ListPassengers, require(auth.PassengerView))
	g.POST("/passengers", h.CreatePassenger, require(auth.PassengerAdd))
	g.GET("/passengers/:id", h.GetPassenger, require(auth.PassengerView))
	g.PATCH("/passengers/:id", h.UpdatePassenger,
		require(auth.PassengerChange, auth.PassengerCheckInChange, auth.PassengerBoardingChange))
	g.DELETE("/passengers/:id", h.DeletePassenger, require(auth.PassengerDelete))
}

func (h *PassengerHandler) CreatePassenger(c echo.Context) error {
	var req dto.CreatePassengerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.svc.CreatePassenger(c.Request().Context(), service.PassengerInput{
		FlightID:   req.FlightID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToPassengerResponse(p))
}

func (h *PassengerHandler) ListPassengers(c echo.Context) error {
	var flightID *uint
	if s := c.QueryParam("flight_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return middleware.FieldError("flight_id", "flight_id must be a positive number")
		}
		v := uint(id)
		flightID = &v
	}

	passengers, err := h.svc.ListPassengers(c.Request().Context(), flightID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.PassengerResponse, len(passengers))
	for i := range passengers {
		resp[i] = dto.ToPassengerResponse(&passengers[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PassengerHandler) GetPassenger(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.svc.GetPassenger(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToPassengerResponse(p))
}

// editableBy rejects fields the actor may not touch. Full change covers
// everything; the flag permissions cover only their own flag.
func (h *PassengerHandler) editableBy(a auth.Actor, req *dto.UpdatePassengerRequest) error {
	if h.az.HasPermission(a, auth.PassengerChange) {
		return nil
	}
	if req.FlightID != nil || req.FirstName != nil || req.LastName != nil || req.MiddleName != nil || req.IsRemoved != nil {
		return echo.NewHTTPError(http.StatusForbidden, "you may only change check-in or boarding flags")
	}
	if req.CheckInPassed != nil && !h.az.HasPermission(a, auth.PassengerCheckInChange) {
		return echo.NewHTTPError(http.StatusForbidden, "you may not change check_in_passed")
	}
	if req.BoardingPassed != nil && !h.az.HasPermission(a, auth.PassengerBoardingChange) {
		return echo.NewHTTPError(http.StatusForbidden, "you may not change boarding_passed")
	}
	return nil
}

func (h *PassengerHandler) UpdatePassenger(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePassengerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.editableBy(a, &req); err != nil {
		return err
	}

	p, err := h.svc.UpdatePassenger(c.Request().Context(), id, service.PassengerUpdate{
		FlightID:       req.FlightID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MiddleName:     req.MiddleName,
		CheckInPassed:  req.CheckInPassed,
		BoardingPassed: req.BoardingPassed,
		IsRemoved:      req.IsRemoved,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToPassengerResponse(p))
}

func (h *PassengerHandler) DeletePassenger(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeletePassenger(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
