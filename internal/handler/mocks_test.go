package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/Eursukkul/airport-ground-ops/internal/auth"
	"github.com/Eursukkul/airport-ground-ops/internal/middleware"
	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/service"
	"github.com/labstack/echo/v4"
)

// --- Mock FlightService ---

type mockFlightService struct {
	createFn       func(ctx context.Context, in service.FlightInput) (*models.Flight, error)
	listFn         func(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error)
	getFn          func(ctx context.Context, id uint) (*models.Flight, error)
	updateFn       func(ctx context.Context, id uint, in service.FlightInput) (*models.Flight, error)
	changeStatusFn func(ctx context.Context, id uint, target models.FlightStatus) (*models.Flight, error)
	deleteFn       func(ctx context.Context, id uint) error
	updateTimesFn  func(ctx context.Context, id uint, in service.TimesInput) (*models.FlightTimes, error)
}

func (m *mockFlightService) CreateFlight(ctx context.Context, in service.FlightInput) (*models.Flight, error) {
	return m.createFn(ctx, in)
}
func (m *mockFlightService) ListFlights(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error) {
	return m.listFn(ctx, status)
}
func (m *mockFlightService) GetFlight(ctx context.Context, id uint) (*models.Flight, error) {
	return m.getFn(ctx, id)
}
func (m *mockFlightService) UpdateFlight(ctx context.Context, id uint, in service.FlightInput) (*models.Flight, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockFlightService) ChangeStatus(ctx context.Context, id uint, target models.FlightStatus) (*models.Flight, error) {
	return m.changeStatusFn(ctx, id, target)
}
func (m *mockFlightService) DeleteFlight(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockFlightService) UpdateTimes(ctx context.Context, id uint, in service.TimesInput) (*models.FlightTimes, error) {
	return m.updateTimesFn(ctx, id, in)
}
func (m *mockFlightService) SyncSchedule(ctx context.Context, in service.ScheduledFlight) error {
	return nil
}

// --- Mock AssignmentService ---

type mockAssignmentService struct {
	toggleDeskFn func(ctx context.Context, id uint, active bool) (service.ToggleResult, error)
	toggleGateFn func(ctx context.Context, id uint, active bool) (service.ToggleResult, error)
	deleteDeskFn func(ctx context.Context, id uint) error
	deleteGateFn func(ctx context.Context, id uint) error
	assignDeskFn func(ctx context.Context, deskID, flightID uint, active bool) (*models.Assignment, error)
	assignGateFn func(ctx context.Context, gateID, flightID uint, active bool) (*models.Assignment, error)
}

func (m *mockAssignmentService) ToggleDeskAssignment(ctx context.Context, id uint, active bool) (service.ToggleResult, error) {
	return m.toggleDeskFn(ctx, id, active)
}
func (m *mockAssignmentService) ToggleGateAssignment(ctx context.Context, id uint, active bool) (service.ToggleResult, error) {
	return m.toggleGateFn(ctx, id, active)
}
func (m *mockAssignmentService) DeleteDeskAssignment(ctx context.Context, id uint) error {
	return m.deleteDeskFn(ctx, id)
}
func (m *mockAssignmentService) DeleteGateAssignment(ctx context.Context, id uint) error {
	return m.deleteGateFn(ctx, id)
}
func (m *mockAssignmentService) AssignFlightToDesk(ctx context.Context, deskID, flightID uint, active bool) (*models.Assignment, error) {
	return m.assignDeskFn(ctx, deskID, flightID, active)
}
func (m *mockAssignmentService) AssignFlightToGate(ctx context.Context, gateID, flightID uint, active bool) (*models.Assignment, error) {
	return m.assignGateFn(ctx, gateID, flightID, active)
}
func (m *mockAssignmentService) ReleaseWorker(ctx context.Context, ev service.WorkerReleased) (service.StationsReleased, error) {
	return service.StationsReleased{}, nil
}

// --- Mock DeskService ---

type mockDeskService struct {
	createFn  func(ctx context.Context, in service.StationInput) (*models.CheckInDesk, error)
	listFn    func(ctx context.Context, ownerID *uint) ([]models.CheckInDesk, error)
	getFn     func(ctx context.Context, id uint) (*models.CheckInDesk, error)
	updateFn  func(ctx context.Context, id uint, in service.StationInput) (*models.CheckInDesk, error)
	deleteFn  func(ctx context.Context, id uint) error
	flightsFn func(ctx context.Context, id uint) (*service.StationFlights, error)
}

func (m *mockDeskService) CreateDesk(ctx context.Context, in service.StationInput) (*models.CheckInDesk, error) {
	return m.createFn(ctx, in)
}
func (m *mockDeskService) ListDesks(ctx context.Context, ownerID *uint) ([]models.CheckInDesk, error) {
	return m.listFn(ctx, ownerID)
}
func (m *mockDeskService) GetDesk(ctx context.Context, id uint) (*models.CheckInDesk, error) {
	return m.getFn(ctx, id)
}
func (m *mockDeskService) UpdateDesk(ctx context.Context, id uint, in service.StationInput) (*models.CheckInDesk, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockDeskService) DeleteDesk(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockDeskService) DeskFlights(ctx context.Context, id uint) (*service.StationFlights, error) {
	return m.flightsFn(ctx, id)
}

// --- Mock WorkerService ---

type mockWorkerService struct {
	createFn func(ctx context.Context, w *models.Worker) error
	listFn   func(ctx context.Context) ([]models.Worker, error)
	getFn    func(ctx context.Context, id uint) (*models.Worker, error)
	updateFn func(ctx context.Context, id uint, in service.WorkerUpdate) (*models.Worker, error)
	deleteFn func(ctx context.Context, actorID, id uint) error
}

func (m *mockWorkerService) CreateWorker(ctx context.Context, w *models.Worker) error {
	return m.createFn(ctx, w)
}
func (m *mockWorkerService) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return m.listFn(ctx)
}
func (m *mockWorkerService) GetWorker(ctx context.Context, id uint) (*models.Worker, error) {
	return m.getFn(ctx, id)
}
func (m *mockWorkerService) UpdateWorker(ctx context.Context, id uint, in service.WorkerUpdate) (*models.Worker, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockWorkerService) DeleteWorker(ctx context.Context, actorID, id uint) error {
	return m.deleteFn(ctx, actorID, id)
}

// --- Mock PassengerService ---

type mockPassengerService struct {
	createFn func(ctx context.Context, in service.PassengerInput) (*models.Passenger, error)
	listFn   func(ctx context.Context, flightID *uint) ([]models.Passenger, error)
	getFn    func(ctx context.Context, id uint) (*models.Passenger, error)
	updateFn func(ctx context.Context, id uint, in service.PassengerUpdate) (*models.Passenger, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockPassengerService) CreatePassenger(ctx context.Context, in service.PassengerInput) (*models.Passenger, error) {
	return m.createFn(ctx, in)
}
func (m *mockPassengerService) ListPassengers(ctx context.Context, flightID *uint) ([]models.Passenger, error) {
	return m.listFn(ctx, flightID)
}
func (m *mockPassengerService) GetPassenger(ctx context.Context, id uint) (*models.Passenger, error) {
	return m.getFn(ctx, id)
}
func (m *mockPassengerService) UpdatePassenger(ctx context.Context, id uint, in service.PassengerUpdate) (*models.Passenger, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockPassengerService) DeletePassenger(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()
	return e
}

// newRequest builds a context for calling a handler method directly.
func newRequest(e *echo.Echo, method, target, body string, a *auth.Actor) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if a != nil {
		middleware.SetActor(c, *a)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

