package service

import (
	"context"
	"sort"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/Eursukkul/airport-ground-ops/internal/repository"
	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
)

// --- Fake Transactor ---

type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// --- In-memory FlightRepository ---

type memFlights struct {
	flights    map[uint]*models.Flight
	times      map[uint]*models.FlightTimes
	passengers map[uint]int64
	assigned   map[uint]int64
	locked     []uint
	nextID     uint

	updateStatusErr error
}

func newMemFlights(flights ...models.Flight) *memFlights {
	m := &memFlights{
		flights:    map[uint]*models.Flight{},
		times:      map[uint]*models.FlightTimes{},
		passengers: map[uint]int64{},
		assigned:   map[uint]int64{},
	}
	for i := range flights {
		f := flights[i]
		m.flights[f.ID] = &f
		if f.ID >= m.nextID {
			m.nextID = f.ID
		}
	}
	return m
}

func (m *memFlights) Create(ctx context.Context, flight *models.Flight) error {
	m.nextID++
	flight.ID = m.nextID
	cp := *flight
	m.flights[flight.ID] = &cp
	return nil
}

func (m *memFlights) FindByID(ctx context.Context, id uint) (*models.Flight, error) {
	f, ok := m.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	cp.Times = m.times[id]
	return &cp, nil
}

func (m *memFlights) FindByIDForUpdate(ctx context.Context, id uint) (*models.Flight, error) {
	m.locked = append(m.locked, id)
	f, ok := m.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFlights) FindAll(ctx context.Context, status *models.FlightStatus) ([]models.Flight, error) {
	var out []models.Flight
	for _, f := range m.flights {
		if status == nil || f.Status == *status {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFlights) FindNotAssignedToDesk(ctx context.Context, deskID uint) ([]models.Flight, error) {
	return m.FindAll(ctx, nil)
}

func (m *memFlights) FindNotAssignedToGate(ctx context.Context, gateID uint) ([]models.Flight, error) {
	return m.FindAll(ctx, nil)
}

func (m *memFlights) UpdatePlan(ctx context.Context, flight *models.Flight) error {
	f, ok := m.flights[flight.ID]
	if !ok {
		return repository.ErrNotFound
	}
	status := f.Status
	cp := *flight
	cp.Status = status
	m.flights[flight.ID] = &cp
	return nil
}

func (m *memFlights) UpdateStatus(ctx context.Context, id uint, status models.FlightStatus) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	f, ok := m.flights[id]
	if !ok {
		return repository.ErrNotFound
	}
	f.Status = status
	return nil
}

func (m *memFlights) UpsertFromSchedule(ctx context.Context, flight *models.Flight) error {
	for _, f := range m.flights {
		if f.ScheduleRef != nil && flight.ScheduleRef != nil && *f.ScheduleRef == *flight.ScheduleRef {
			status := f.Status
			id := f.ID
			cp := *flight
			cp.ID = id
			cp.Status = status
			m.flights[id] = &cp
			return nil
		}
	}
	return m.Create(ctx, flight)
}

func (m *memFlights) Delete(ctx context.Context, id uint) error {
	if _, ok := m.flights[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.flights, id)
	delete(m.times, id)
	return nil
}

func (m *memFlights) CountPassengers(ctx context.Context, id uint) (int64, error) {
	return m.passengers[id], nil
}

func (m *memFlights) CountAssignments(ctx context.Context, id uint) (int64, error) {
	return m.assigned[id], nil
}

func (m *memFlights) GetOrCreateTimes(ctx context.Context, flightID uint) (*models.FlightTimes, error) {
	t, ok := m.times[flightID]
	if !ok {
		t = &models.FlightTimes{FlightID: flightID}
		m.times[flightID] = t
	}
	cp := *t
	return &cp, nil
}

func (m *memFlights) SaveTimes(ctx context.Context, times *models.FlightTimes) error {
	cp := *times
	m.times[times.FlightID] = &cp
	return nil
}

func (m *memFlights) status(id uint) models.FlightStatus {
	return m.flights[id].Status
}

// --- In-memory assignments shared by desks and gates ---

type memAssignments struct {
	assignments map[uint]*models.Assignment
	nextID      uint
	released    []uint
}

func newMemAssignments() memAssignments {
	return memAssignments{assignments: map[uint]*models.Assignment{}}
}

func (m *memAssignments) add(stationID, flightID uint, active bool) uint {
	m.nextID++
	m.assignments[m.nextID] = &models.Assignment{ID: m.nextID, StationID: stationID, FlightID: flightID, IsActive: active}
	return m.nextID
}

func (m *memAssignments) FindAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAssignments) SetAssignmentActive(ctx context.Context, id uint, active bool) error {
	a, ok := m.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.IsActive = active
	return nil
}

func (m *memAssignments) CountActiveAssignments(ctx context.Context, flightID uint) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if a.FlightID == flightID && a.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memAssignments) DeleteAssignment(ctx context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *memAssignments) CountAssignments(ctx context.Context, stationID uint) (int64, error) {
	var n int64
	for _, a := range m.assignments {
		if a.StationID == stationID {
			n++
		}
	}
	return n, nil
}

func (m *memAssignments) createAssignment(stationID, flightID uint) (uint, error) {
	for _, a := range m.assignments {
		if a.StationID == stationID && a.FlightID == flightID {
			return 0, repository.ErrDuplicate
		}
	}
	return m.add(stationID, flightID, false), nil
}

func (m *memAssignments) active(id uint) bool {
	return m.assignments[id].IsActive
}

// --- In-memory DeskRepository ---

type memDesks struct {
	memAssignments
	desks map[uint]*models.CheckInDesk
}

func newMemDesks(desks ...models.CheckInDesk) *memDesks {
	m := &memDesks{memAssignments: newMemAssignments(), desks: map[uint]*models.CheckInDesk{}}
	for i := range desks {
		d := desks[i]
		m.desks[d.ID] = &d
	}
	return m
}

func (m *memDesks) Create(ctx context.Context, desk *models.CheckInDesk) error {
	desk.ID = uint(len(m.desks) + 1)
	cp := *desk
	m.desks[desk.ID] = &cp
	return nil
}

func (m *memDesks) FindByID(ctx context.Context, id uint) (*models.CheckInDesk, error) {
	d, ok := m.desks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDesks) FindAll(ctx context.Context, workerID *uint) ([]models.CheckInDesk, error) {
	var out []models.CheckInDesk
	for _, d := range m.desks {
		if workerID == nil || (d.WorkerID != nil && *d.WorkerID == *workerID) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memDesks) FindByWorker(ctx context.Context, workerID uint) (*models.CheckInDesk, error) {
	for _, d := range m.desks {
		if d.WorkerID != nil && *d.WorkerID == workerID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memDesks) Update(ctx context.Context, desk *models.CheckInDesk) error {
	if _, ok := m.desks[desk.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *desk
	m.desks[desk.ID] = &cp
	return nil
}

func (m *memDesks) Delete(ctx context.Context, id uint) error {
	if _, ok := m.desks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.desks, id)
	return nil
}

func (m *memDesks) ReleaseWorker(ctx context.Context, workerID uint) (int64, error) {
	var n int64
	for _, d := range m.desks {
		if d.WorkerID != nil && *d.WorkerID == workerID {
			d.WorkerID = nil
			d.IsActive = false
			n++
		}
	}
	m.released = append(m.released, workerID)
	return n, nil
}

func (m *memDesks) CreateAssignment(ctx context.Context, a *models.DeskAssignment) error {
	id, err := m.createAssignment(a.DeskID, a.FlightID)
	a.ID = id
	return err
}

func (m *memDesks) FindAssignmentsByDesk(ctx context.Context, deskID uint) ([]models.DeskAssignment, error) {
	var out []models.DeskAssignment
	for _, a := range m.assignments {
		if a.StationID == deskID {
			out = append(out, models.DeskAssignment{ID: a.ID, DeskID: a.StationID, FlightID: a.FlightID, IsActive: a.IsActive, Flight: &models.Flight{ID: a.FlightID}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- In-memory GateRepository ---

type memGates struct {
	memAssignments
	gates map[uint]*models.Gate
}

func newMemGates(gates ...models.Gate) *memGates {
	m := &memGates{memAssignments: newMemAssignments(), gates: map[uint]*models.Gate{}}
	for i := range gates {
		g := gates[i]
		m.gates[g.ID] = &g
	}
	return m
}

func (m *memGates) Create(ctx context.Context, gate *models.Gate) error {
	gate.ID = uint(len(m.gates) + 1)
	cp := *gate
	m.gates[gate.ID] = &cp
	return nil
}

func (m *memGates) FindByID(ctx context.Context, id uint) (*models.Gate, error) {
	g, ok := m.gates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGates) FindAll(ctx context.Context, workerID *uint) ([]models.Gate, error) {
	var out []models.Gate
	for _, g := range m.gates {
		if workerID == nil || (g.WorkerID != nil && *g.WorkerID == *workerID) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memGates) Update(ctx context.Context, gate *models.Gate) error {
	if _, ok := m.gates[gate.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *gate
	m.gates[gate.ID] = &cp
	return nil
}

func (m *memGates) Delete(ctx context.Context, id uint) error {
	if _, ok := m.gates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.gates, id)
	return nil
}

func (m *memGates) ReleaseWorker(ctx context.Context, workerID uint) (int64, error) {
	var n int64
	for _, g := range m.gates {
		if g.WorkerID != nil && *g.WorkerID == workerID {
			g.WorkerID = nil
			g.IsActive = false
			n++
		}
	}
	m.released = append(m.released, workerID)
	return n, nil
}

func (m *memGates) CreateAssignment(ctx context.Context, a *models.GateAssignment) error {
	id, err := m.createAssignment(a.GateID, a.FlightID)
	a.ID = id
	return err
}

func (m *memGates) FindAssignmentsByGate(ctx context.Context, gateID uint) ([]models.GateAssignment, error) {
	var out []models.GateAssignment
	for _, a := range m.assignments {
		if a.StationID == gateID {
			out = append(out, models.GateAssignment{ID: a.ID, GateID: a.StationID, FlightID: a.FlightID, IsActive: a.IsActive, Flight: &models.Flight{ID: a.FlightID}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- In-memory PassengerRepository ---

// memPassengers keeps the passenger counts of its memFlights in step, so
// flight deletion sees the passengers created through it.
type memPassengers struct {
	flights    *memFlights
	passengers map[uint]*models.Passenger
	nextID     uint
}

func newMemPassengers(flights *memFlights) *memPassengers {
	return &memPassengers{flights: flights, passengers: map[uint]*models.Passenger{}}
}

func (m *memPassengers) Create(ctx context.Context, p *models.Passenger) error {
	if _, ok := m.flights.flights[p.FlightID]; !ok {
		return repository.ErrReferenced
	}
	m.nextID++
	p.ID = m.nextID
	cp := *p
	m.passengers[p.ID] = &cp
	m.flights.passengers[p.FlightID]++
	return nil
}

func (m *memPassengers) FindByID(ctx context.Context, id uint) (*models.Passenger, error) {
	p, ok := m.passengers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPassengers) FindAll(ctx context.Context, flightID *uint) ([]models.Passenger, error) {
	out := []models.Passenger{}
	for _, p := range m.passengers {
		if flightID == nil || p.FlightID == *flightID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPassengers) Update(ctx context.Context, p *models.Passenger) error {
	old, ok := m.passengers[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := m.flights.flights[p.FlightID]; !ok {
		return repository.ErrReferenced
	}
	m.flights.passengers[old.FlightID]--
	m.flights.passengers[p.FlightID]++
	cp := *p
	m.passengers[p.ID] = &cp
	return nil
}

func (m *memPassengers) Delete(ctx context.Context, id uint) error {
	p, ok := m.passengers[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.flights.passengers[p.FlightID]--
	delete(m.passengers, id)
	return nil
}

// --- Recording Publisher ---

type recordingPublisher struct {
	keys     []string
	payloads []any
	err      error
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.keys = append(p.keys, routingKey)
	p.payloads = append(p.payloads, payload)
	return p.err
}

// --- Helpers ---

func uintPtr(v uint) *uint { return &v }

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func testNotifier(pub Publisher) *Notifier {
	return NewNotifier(pub, nil, logger.NewNop())
}
