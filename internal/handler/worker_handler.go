package handler

import (
	"net/http"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/dto"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
)

type WorkerHandler struct {
	svc service.WorkerService
	az  *auth.Authorizer
}

func NewWorkerHandler(svc service.WorkerService, az *auth.Authorizer) *WorkerHandler {
	return &WorkerHandler{svc: svc, az: az}
}

func (h *WorkerHandler) RegisterRoutes(g *echo.Group) {
	require := func(p auth.Permission) echo.MiddlewareFunc { return middleware.RequirePermission(h.az, p) }

	g.GET("/workers", h.ListWorkers, require(auth.WorkerView))
	g.POST("/workers", h.CreateWorker, require(auth.WorkerAdd))
	g.GET("/workers/:id", h.GetWorker, require(auth.WorkerView))
	g.PATCH("/workers/:id", h.UpdateWorker, require(auth.WorkerChange))
	g.DELETE("/workers/:id", h.DeleteWorker, require(auth.WorkerDelete))
}

func (h *WorkerHandler) CreateWorker(c echo.Context) error {
	var req dto.CreateWorkerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	w := &models.Worker{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MiddleName:  req.MiddleName,
		Phone:       req.Phone,
		Email:       req.Email,
		IsActive:    req.IsActive == nil || *req.IsActive,
		IsSuperuser: req.IsSuperuser,
		Roles:       pq.StringArray(req.Roles),
	}
	if err := h.svc.CreateWorker(c.Request().Context(), w); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToWorkerResponse(w))
}

func (h *WorkerHandler) ListWorkers(c echo.Context) error {
	workers, err := h.svc.ListWorkers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.WorkerResponse, len(workers))
	for i := range workers {
		resp[i] = dto.ToWorkerResponse(&workers[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *WorkerHandler) GetWorker(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	w, err := h.svc.GetWorker(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToWorkerResponse(w))
}

func (h *WorkerHandler) UpdateWorker(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateWorkerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	w, err := h.svc.UpdateWorker(c.Request().Context(), id, service.WorkerUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		Phone:      req.Phone,
		Email:      req.Email,
		IsActive:   req.IsActive,
		Roles:      req.Roles,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.ToWorkerResponse(w))
}

func (h *WorkerHandler) DeleteWorker(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteWorker(c.Request().Context(), a.WorkerID, id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
