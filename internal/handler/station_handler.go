package handler

import (
	"net/http"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/dto"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

func actor(c echo.Context) (auth.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return auth.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return a, nil
}

func owns(a auth.Actor, workerID *uint) bool {
	return workerID != nil && *workerID == a.WorkerID
}

// ownerFilter narrows a listing to the actor's own stations when they may
// only see those, or when they ask for ?owner=me.
func ownerFilter(c echo.Context, az *auth.Authorizer, a auth.Actor, viewAll auth.Permission) *uint {
	if !az.HasPermission(a, viewAll) || c.QueryParam("owner") == "me" {
		id := a.WorkerID
		return &id
	}
	return nil
}

func toStationInput(req dto.StationRequest) service.StationInput {
	return service.StationInput{Number: req.Number, WorkerID: req.WorkerID, IsActive: req.IsActive}
}

// --- Check-in desks ---

type DeskHandler struct {
	desks       service.DeskService
	assignments service.AssignmentService
	az          *auth.Authorizer
}

func NewDeskHandler(desks service.DeskService, assignments service.AssignmentService, az *auth.Authorizer) *DeskHandler {
	return &DeskHandler{desks: desks, assignments: assignments, az: az}
}

func (h *DeskHandler) RegisterRoutes(g *echo.Group) {
	require := func(p ...auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p...) }

	g.GET("/desks", h.ListDesks, require(auth.DeskView, auth.DeskViewOwn))
	g.POST("/desks", h.CreateDesk, require(auth.DeskAdd))
	g.GET("/desks/:id", h.GetDesk, require(auth.DeskView, auth.DeskViewOwn))
	g.PUT("/desks/:id", h.UpdateDesk, require(auth.DeskChange))
	g.DELETE("/desks/:id", h.DeleteDesk, require(auth.DeskDelete))
	g.GET("/desks/:id/flights", h.DeskFlights)
	g.POST("/desks/:id/assignments", h.AssignFlight, require(auth.DeskAssignmentAdd))
}

func (h *DeskHandler) CreateDesk(c echo.Context) error {
	var req dto.StationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	desk, err := h.desks.CreateDesk(c.Request().Context(), toStationInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToDeskResponse(desk))
}

func (h *DeskHandler) ListDesks(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	desks, err := h.desks.ListDesks(c.Request().Context(), ownerFilter(c, h.az, a, auth.DeskView))
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.StationResponse, len(desks))
	for i := range desks {
		resp[i] = dto.ToDeskResponse(&desks[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DeskHandler) GetDesk(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	desk, err := h.desks.GetDesk(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !h.az.HasPermission(a, auth.DeskView) && !owns(a, desk.WorkerID) {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	return c.JSON(http.StatusOK, dto.ToDeskResponse(desk))
}

func (h *DeskHandler) UpdateDesk(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	desk, err := h.desks.UpdateDesk(c.Request().Context(), id, toStationInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToDeskResponse(desk))
}

func (h *DeskHandler) DeleteDesk(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.desks.DeleteDesk(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeskFlights is open to whoever may toggle desk assignments and to the
// desk's own worker.
func (h *DeskHandler) DeskFlights(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	flights, err := h.desks.DeskFlights(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !h.az.HasPermission(a, auth.DeskAssignmentChange) && !owns(a, flights.WorkerID) {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	return c.JSON(http.StatusOK, dto.ToStationFlightsResponse(flights))
}

func (h *DeskHandler) AssignFlight(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignFlightRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.assignments.AssignFlightToDesk(c.Request().Context(), id, req.FlightID, req.IsActive)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToAssignmentResponse(a))
}

// --- Gates ---

type GateHandler struct {
	gates       service.GateService
	assignments service.AssignmentService
	az          *auth.Authorizer
}

func NewGateHandler(gates service.GateService, assignments service.AssignmentService, az *auth.Authorizer) *GateHandler {
	return &GateHandler{gates: gates, assignments: assignments, az: az}
}

func (h *GateHandler) RegisterRoutes(g *echo.Group) {
	require := func(p ...auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p...) }

	g.GET("/gates", h.ListGates, require(auth.GateView, auth.GateViewOwn))
	g.POST("/gates", h.CreateGate, require(auth.GateAdd))
	g.GET("/gates/:id", h.GetGate, require(auth.GateView, auth.GateViewOwn))
	g.PUT("/gates/:id", h.UpdateGate, require(auth.GateChange))
	g.DELETE("/gates/:id", h.DeleteGate, require(auth.GateDelete))
	g.GET("/gates/:id/flights", h.GateFlights)
	g.POST("/gates/:id/assignments", h.AssignFlight, require(auth.GateAssignmentAdd))
}

func (h *GateHandler) CreateGate(c echo.Context) error {
	var req dto.StationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	gate, err := h.gates.CreateGate(c.Request().Context(), toStationInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToGateResponse(gate))
}

func (h *GateHandler) ListGates(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}

	gates, err := h.gates.ListGates(c.Request().Context(), ownerFilter(c, h.az, a, auth.GateView))
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.StationResponse, len(gates))
	for i := range gates {
		resp[i] = dto.ToGateResponse(&gates[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *GateHandler) GetGate(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	gate, err := h.gates.GetGate(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !h.az.HasPermission(a, auth.GateView) && !owns(a, gate.WorkerID) {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	return c.JSON(http.StatusOK, dto.ToGateResponse(gate))
}

func (h *GateHandler) UpdateGate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	gate, err := h.gates.UpdateGate(c.Request().Context(), id, toStationInput(req))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToGateResponse(gate))
}

func (h *GateHandler) DeleteGate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.gates.DeleteGate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *GateHandler) GateFlights(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	flights, err := h.gates.GateFlights(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !h.az.HasPermission(a, auth.GateAssignmentChange) && !owns(a, flights.WorkerID) {
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	}

	return c.JSON(http.StatusOK, dto.ToStationFlightsResponse(flights))
}

func (h *GateHandler) AssignFlight(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignFlightRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	a, err := h.assignments.AssignFlightToGate(c.Request().Context(), id, req.FlightID, req.IsActive)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToAssignmentResponse(a))
}
