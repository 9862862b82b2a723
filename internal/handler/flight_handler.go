package handler

import (
	"net/http"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/dto"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

type FlightHandler struct {
	svc service.FlightService
	az  *auth.Authorizer
}

func NewFlightHandler(svc service.FlightService, az *auth.Authorizer) *FlightHandler {
	return &FlightHandler{svc: svc, az: az}
}

func (h *FlightHandler) RegisterRoutes(g *echo.Group) {
	require := func(p auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p) }

	g.GET("/flights", h.ListFlights, require(auth.FlightView))
	g.POST("/flights", h.CreateFlight, require(auth.FlightAdd))
	g.GET("/flights/:id", h.GetFlight, require(auth.FlightView))
	g.PUT("/flights/:id", h.UpdateFlight, require(auth.FlightChange))
	g.PATCH("/flights/:id/status", h.ChangeStatus, require(auth.FlightChangeStatus))
	g.PUT("/flights/:id/times", h.UpdateTimes, require(auth.FlightTimesChange))
	g.DELETE("/flights/:id", h.DeleteFlight, require(auth.FlightDelete))
}

func toFlightInput(req dto.FlightRequest) service.FlightInput {
	return service.FlightInput{
		Number:           req.Number,
		Aircraft:         req.Aircraft,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		PlannedDeparture: req.PlannedDeparture,
		PlannedArrival:   req.PlannedArrival,
	}
}

func (h *FlightHandler) CreateFlight(c echo.Context) error {
	var req dto.FlightRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	flight, err := h.svc.CreateFlight(c.Request().Context(), toFlightInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToFlightResponse(flight))
}

// ListFlights supports ?status=<name>, e.g. ?status=check_in_open.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	var status *models.FlightStatus
	if s := c.QueryParam("status"); s != "" {
		parsed, ok := models.ParseFlightStatus(s)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		status = &parsed
	}

	flights, err := h.svc.ListFlights(c.Request().Context(), status)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFlightResponses(flights))
}

func (h *FlightHandler) GetFlight(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	flight, err := h.svc.GetFlight(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFlightResponse(flight))
}

func (h *FlightHandler) UpdateFlight(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.FlightRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	flight, err := h.svc.UpdateFlight(c.Request().Context(), id, toFlightInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFlightResponse(flight))
}

func (h *FlightHandler) ChangeStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.FlightStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	target, ok := models.ParseFlightStatus(req.Status)
	if !ok {
		return middleware.FieldError("status", "unknown status")
	}

	flight, err := h.svc.ChangeStatus(c.Request().Context(), id, target)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFlightResponse(flight))
}

func (h *FlightHandler) UpdateTimes(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.FlightTimesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	times, err := h.svc.UpdateTimes(c.Request().Context(), id, service.TimesInput{
		ActualDeparture: req.ActualDeparture,
		ActualArrival:   req.ActualArrival,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToFlightTimesResponse(times))
}

func (h *FlightHandler) DeleteFlight(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteFlight(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
