package handler

import (
	"net/http"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/dto"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

type AssignmentHandler struct {
	svc service.AssignmentService
	az  *auth.Authorizer
}

func NewAssignmentHandler(svc service.AssignmentService, az *auth.Authorizer) *AssignmentHandler {
	return &AssignmentHandler{svc: svc, az: az}
}

// RegisterRoutes mounts the toggle and delete endpoints. idem guards the
// toggles against retried requests.
func (h *AssignmentHandler) RegisterRoutes(g *echo.Group, idem echo.MiddlewareFunc) {
	require := func(p auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p) }

	g.PATCH("/desk-assignments/:id", h.ToggleDesk, require(auth.DeskAssignmentChange), idem)
	g.DELETE("/desk-assignments/:id", h.DeleteDesk, require(auth.DeskAssignmentDelete))
	g.PATCH("/gate-assignments/:id", h.ToggleGate, require(auth.GateAssignmentChange), idem)
	g.DELETE("/gate-assignments/:id", h.DeleteGate, require(auth.GateAssignmentDelete))
}

type toggleFunc func(c echo.Context, id uint, active bool) (service.ToggleResult, error)

// toggle answers 200 whether or not the flight allowed the change; the body
// says which.
func (h *AssignmentHandler) toggle(c echo.Context, fn toggleFunc) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ToggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := fn(c, id, *req.IsActive)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToToggleResponse(res))
}

func (h *AssignmentHandler) ToggleDesk(c echo.Context) error {
	return h.toggle(c, func(c echo.Context, id uint, active bool) (service.ToggleResult, error) {
		return h.svc.ToggleDeskAssignment(c.Request().Context(), id, active)
	})
}

func (h *AssignmentHandler) ToggleGate(c echo.Context) error {
	return h.toggle(c, func(c echo.Context, id uint, active bool) (service.ToggleResult, error) {
		return h.svc.ToggleGateAssignment(c.Request().Context(), id, active)
	})
}

func (h *AssignmentHandler) DeleteDesk(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDeskAssignment(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AssignmentHandler) DeleteGate(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteGateAssignment(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
