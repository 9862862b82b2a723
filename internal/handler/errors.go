package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/airport-ground-ops/internal/eligibility"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

var notFoundErrors = []error{
	service.ErrFlightNotFound,
	service.ErrAssignmentNotFound,
	service.ErrDeskNotFound,
	service.ErrGateNotFound,
	service.ErrWorkerNotFound,
	service.ErrPassengerNotFound,
}

var conflictErrors = []error{
	service.ErrDeskInUse,
	service.ErrGateInUse,
	service.ErrFlightHasPassengers,
	service.ErrFlightInUse,
	service.ErrAlreadyAssigned,
	service.ErrWorkerOwnsDesk,
	service.ErrStationUnstaffed,
	service.ErrFlightNotEligible,
}

// httpError maps service errors onto HTTP responses. Anything unknown is
// returned as is and ends up as a logged 500.
func httpError(err error) error {
	var violation *eligibility.Violation
	if errors.As(err, &violation) {
		return middleware.FieldError(violation.Field, violation.Message)
	}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return middleware.FieldError(verr.Field, verr.Message)
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusNotFound, target.Error())
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusConflict, target.Error())
		}
	}
	if errors.Is(err, repository.ErrInvalidValue) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "a value is too long or malformed")
	}
	if errors.Is(err, service.ErrSelfDelete) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return err
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
