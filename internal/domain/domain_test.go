package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

func TestOverlaps(t *testing.T) {
	ts := types.MustTimeString

	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{"inside", "10:30", "11:00", "10:00", "11:00", true},
		{"partial left", "09:30", "10:30", "10:00", "11:00", true},
		{"partial right", "10:30", "11:30", "10:00", "11:00", true},
		{"touching end", "11:00", "12:00", "10:00", "11:00", false},
		{"touching start", "09:00", "10:00", "10:00", "11:00", false},
		{"disjoint", "12:00", "13:00", "10:00", "11:00", false},
		{"covers", "09:00", "12:00", "10:00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(ts(tt.aStart), ts(tt.aEnd), ts(tt.bStart), ts(tt.bEnd))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppointment_Overlaps(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, BusinessLocation)
	appt := &Appointment{
		StartsAt: types.MustTimeString("10:00").On(date, BusinessLocation),
		EndTime:  types.MustTimeString("11:00"),
		Status:   StatusConfirmed,
	}

	assert.True(t, appt.Overlaps(types.MustTimeString("10:30"), types.MustTimeString("11:30")))
	assert.False(t, appt.Overlaps(types.MustTimeString("11:00"), types.MustTimeString("12:00")))

	appt.Status = StatusCancelled
	assert.False(t, appt.Overlaps(types.MustTimeString("10:30"), types.MustTimeString("11:30")))
}

func TestAppointment_StartTimeUsesBusinessLocation(t *testing.T) {
	// 13:00 UTC = 10:00 UTC-3
	appt := &Appointment{StartsAt: time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)}
	assert.Equal(t, "10:00", appt.StartTime().String())
}

func TestAppointmentStatus_IsBlocking(t *testing.T) {
	assert.True(t, StatusScheduled.IsBlocking())
	assert.True(t, StatusConfirmed.IsBlocking())
	assert.True(t, StatusInProgress.IsBlocking())
	assert.False(t, StatusCompleted.IsBlocking())
	assert.False(t, StatusCancelled.IsBlocking())
	assert.False(t, StatusNoShow.IsBlocking())
}

func TestAppointment_DurationMinutes(t *testing.T) {
	appt := &Appointment{Items: []LineItem{
		{Kind: LineItemService, DurationMinutes: 30, Quantity: 1},
		{Kind: LineItemPackage, DurationMinutes: 90, Quantity: 1},
	}}
	assert.Equal(t, 120, appt.DurationMinutes())
}

func TestDefaultOperatingParameters(t *testing.T) {
	p := DefaultOperatingParameters()
	assert.Equal(t, "08:00", p.OpeningTime.String())
	assert.Equal(t, "18:00", p.ClosingTime.String())
	assert.Equal(t, 30, p.IntervalMinutes)
	assert.Equal(t, 120, p.LeadTimeMinutes())
}
