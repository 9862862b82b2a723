package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Eursukkul/airport-ground-ops/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlightService(flights *memFlights, pub Publisher) *flightService {
	return NewFlightService(&fakeTx{}, flights, testNotifier(pub), "svo").(*flightService)
}

func departingInput() FlightInput {
	return FlightInput{
		Number:           "su100",
		Aircraft:         "RA-89001",
		DepartureAirport: "SVO",
		ArrivalAirport:   "LED",
		PlannedDeparture: timePtr(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestCreateFlight_ForcedScheduled(t *testing.T) {
	flights := newMemFlights()
	svc := newFlightService(flights, nil)

	f, err := svc.CreateFlight(context.Background(), departingInput())

	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, f.Status)
	assert.Equal(t, "SU100", f.Number)
	assert.Equal(t, models.StatusScheduled, flights.status(f.ID))
}

func TestCreateFlight_HomeBaseNeedsPlannedTimes(t *testing.T) {
	svc := newFlightService(newMemFlights(), nil)

	in := departingInput()
	in.PlannedDeparture = nil
	_, err := svc.CreateFlight(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "planned_departure", verr.Field)

	in = FlightInput{Number: "SU101", Aircraft: "RA-89002", DepartureAirport: "LED", ArrivalAirport: "SVO"}
	_, err = svc.CreateFlight(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "planned_arrival", verr.Field)
}

func TestCreateFlight_ForeignRouteNeedsNoTimes(t *testing.T) {
	svc := newFlightService(newMemFlights(), nil)

	_, err := svc.CreateFlight(context.Background(), FlightInput{Number: "SU5", Aircraft: "RA-1", DepartureAirport: "LED", ArrivalAirport: "KZN"})

	assert.NoError(t, err)
}

func TestUpdateFlight_KeepsStatus(t *testing.T) {
	flights := newMemFlights(models.Flight{ID: 1, Number: "SU100", DepartureAirport: "SVO", ArrivalAirport: "LED", Status: models.StatusCheckInOpen})
	svc := newFlightService(flights, nil)

	in := departingInput()
	in.Aircraft = "RA-89099"
	f, err := svc.UpdateFlight(context.Background(), 1, in)

	require.NoError(t, err)
	assert.Equal(t, "RA-89099", f.Aircraft)
	assert.Equal(t, models.StatusCheckInOpen, flights.status(1))
}

func TestChangeStatus_Selectable(t *testing.T) {
	pub := &recordingPublisher{}
	flights := newMemFlights(models.Flight{ID: 1, Number: "SU100", Status: models.StatusBoardingClosed})
	svc := newFlightService(flights, pub)

	f, err := svc.ChangeStatus(context.Background(), 1, models.StatusDeparted)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDeparted, f.Status)
	assert.Equal(t, models.StatusDeparted, flights.status(1))
	require.Len(t, pub.payloads, 1)
	assert.Equal(t, "departed", pub.payloads[0].(FlightStatusChanged).To)
}

func TestChangeStatus_MachineOnlyStatusRejected(t *testing.T) {
	flights := newMemFlights(models.Flight{ID: 1, Status: models.StatusScheduled})
	svc := newFlightService(flights, nil)

	_, err := svc.ChangeStatus(context.Background(), 1, models.StatusCheckInOpen)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
	assert.Equal(t, models.StatusScheduled, flights.status(1))
}

func TestChangeStatus_SameStatusIsNoop(t *testing.T) {
	pub := &recordingPublisher{}
	flights := newMemFlights(models.Flight{ID: 1, Status: models.StatusCheckInOpen})
	svc := newFlightService(flights, pub)

	f, err := svc.ChangeStatus(context.Background(), 1, models.StatusCheckInOpen)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckInOpen, f.Status)
	assert.Empty(t, pub.payloads)
}

func TestDeleteFlight_Guards(t *testing.T) {
	flights := newMemFlights(models.Flight{ID: 1}, models.Flight{ID: 2}, models.Flight{ID: 3})
	flights.passengers[1] = 3
	flights.assigned[2] = 1
	svc := newFlightService(flights, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteFlight(ctx, 1), ErrFlightHasPassengers)
	assert.ErrorIs(t, svc.DeleteFlight(ctx, 2), ErrFlightInUse)
	assert.ErrorIs(t, svc.DeleteFlight(ctx, 9), ErrFlightNotFound)
	require.NoError(t, svc.DeleteFlight(ctx, 3))
	assert.NotContains(t, flights.flights, uint(3))
}

func TestUpdateTimes_OnlyHomeSide(t *testing.T) {
	flights := newMemFlights(models.Flight{ID: 1, DepartureAirport: "SVO", ArrivalAirport: "LED"})
	svc := newFlightService(flights, nil)
	dep := time.Date(2026, 3, 1, 10, 12, 0, 0, time.UTC)
	arr := time.Date(2026, 3, 1, 11, 40, 0, 0, time.UTC)

	times, err := svc.UpdateTimes(context.Background(), 1, TimesInput{ActualDeparture: &dep, ActualArrival: &arr})

	require.NoError(t, err)
	assert.Equal(t, dep, *times.ActualDeparture)
	assert.Nil(t, times.ActualArrival)
	assert.Equal(t, dep, *flights.times[1].ActualDeparture)
}

func TestSyncSchedule_UpsertKeepsStatus(t *testing.T) {
	flights := newMemFlights()
	svc := newFlightService(flights, nil)
	ctx := context.Background()

	in := ScheduledFlight{Ref: "feed-1", FlightInput: departingInput()}
	require.NoError(t, svc.SyncSchedule(ctx, in))
	require.Len(t, flights.flights, 1)
	require.NoError(t, flights.UpdateStatus(ctx, 1, models.StatusCheckInOpen))

	in.Aircraft = "RA-89123"
	require.NoError(t, svc.SyncSchedule(ctx, in))

	require.Len(t, flights.flights, 1)
	assert.Equal(t, "RA-89123", flights.flights[1].Aircraft)
	assert.Equal(t, models.StatusCheckInOpen, flights.status(1))
}

func TestSyncSchedule_RequiresRef(t *testing.T) {
	svc := newFlightService(newMemFlights(), nil)

	err := svc.SyncSchedule(context.Background(), ScheduledFlight{FlightInput: departingInput()})

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSyncSchedule_RejectsValuesTheColumnsCannotHold(t *testing.T) {
	cases := map[string]struct {
		mutate func(in *ScheduledFlight)
		field  string
	}{
		"long number":       {func(in *ScheduledFlight) { in.Number = "SU1234567890123" }, "number"},
		"long aircraft":     {func(in *ScheduledFlight) { in.Aircraft = "RA-89001-EXTENDED-TAIL" }, "aircraft"},
		"city for airport":  {func(in *ScheduledFlight) { in.DepartureAirport = "MOSCOW" }, "departure_airport"},
		"one-letter code":   {func(in *ScheduledFlight) { in.ArrivalAirport = "L" }, "arrival_airport"},
		"digits in airport": {func(in *ScheduledFlight) { in.ArrivalAirport = "L3D" }, "arrival_airport"},
		"long ref":          {func(in *ScheduledFlight) { in.Ref = strings.Repeat("r", 65) }, "ref"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			flights := newMemFlights()
			svc := newFlightService(flights, nil)
			in := ScheduledFlight{Ref: "feed-1", FlightInput: departingInput()}
			tc.mutate(&in)

			err := svc.SyncSchedule(context.Background(), in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Empty(t, flights.flights)
		})
	}
}

func TestCreateFlight_RejectsCityForAirport(t *testing.T) {
	svc := newFlightService(newMemFlights(), nil)

	in := departingInput()
	in.ArrivalAirport = "MOSCOW"
	_, err := svc.CreateFlight(context.Background(), in)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "arrival_airport", verr.Field)
}
