package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

func at(date time.Time, hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(date, domain.BusinessLocation)
}

func slotStrings(slots []types.TimeString) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.String()
	}
	return result
}

func opParams(opening, closing string, interval, lead int) domain.OperatingParameters {
	return domain.OperatingParameters{
		OpeningTime:     types.MustTimeString(opening),
		ClosingTime:     types.MustTimeString(closing),
		IntervalMinutes: interval,
		LeadTimeHours:   lead,
	}
}

func TestGenerateCandidates(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, domain.BusinessLocation)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name     string
		params   domain.OperatingParameters
		duration int
		date     time.Time
		now      time.Time
		expected []string
	}{
		{
			name:     "future date full grid, booking must end by closing",
			params:   opParams("08:00", "10:00", 30, 2),
			duration: 60,
			date:     tomorrow,
			now:      at(today, "09:10"),
			expected: []string{"08:00", "08:30", "09:00"},
		},
		{
			name:     "today with lead time",
			params:   opParams("08:00", "13:00", 30, 2),
			duration: 30,
			date:     today,
			now:      at(today, "09:10"),
			expected: []string{"11:30", "12:00", "12:30"},
		},
		{
			name:     "lead time boundary is inclusive",
			params:   opParams("08:00", "13:00", 30, 2),
			duration: 30,
			date:     today,
			now:      at(today, "09:30"),
			expected: []string{"11:30", "12:00", "12:30"},
		},
		{
			name:     "past date",
			params:   opParams("08:00", "18:00", 30, 2),
			duration: 30,
			date:     yesterday,
			now:      at(today, "09:10"),
			expected: []string{},
		},
		{
			name:     "closing before opening",
			params:   opParams("18:00", "08:00", 30, 0),
			duration: 30,
			date:     tomorrow,
			now:      at(today, "09:10"),
			expected: []string{},
		},
		{
			name:     "duration longer than the day",
			params:   opParams("08:00", "09:00", 30, 0),
			duration: 90,
			date:     tomorrow,
			now:      at(today, "09:10"),
			expected: []string{},
		},
		{
			name:     "uneven interval",
			params:   opParams("08:00", "09:30", 40, 0),
			duration: 20,
			date:     tomorrow,
			now:      at(today, "09:10"),
			expected: []string{"08:00", "08:40"},
		},
		{
			name:     "late evening lead time past midnight",
			params:   opParams("08:00", "23:30", 30, 2),
			duration: 30,
			date:     today,
			now:      at(today, "22:45"),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateCandidates(tt.params, tt.duration, tt.date, tt.now)
			assert.Equal(t, tt.expected, slotStrings(got))
		})
	}
}

func appointment(professionalID string, date time.Time, start, end string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ProfessionalID: professionalID,
		StartsAt:       at(date, start),
		EndTime:        types.MustTimeString(end),
		Status:         status,
	}
}

func TestSingleSlots_HalfOpenOverlap(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, domain.BusinessLocation)
	candidates := []types.TimeString{
		types.MustTimeString("09:00"),
		types.MustTimeString("09:30"),
		types.MustTimeString("10:00"),
		types.MustTimeString("10:30"),
		types.MustTimeString("11:00"),
	}
	appointments := []*domain.Appointment{
		appointment("p1", date, "10:00", "11:00", domain.StatusConfirmed),
		appointment("p1", date, "09:00", "09:30", domain.StatusCancelled),
	}

	slots := singleSlots(candidates, 60, appointments)

	got := make([]string, len(slots))
	for i, s := range slots {
		got[i] = s.StartTime.String()
		assert.Equal(t, 1, s.Available)
		assert.Equal(t, 1, s.Total)
	}
	assert.Equal(t, []string{"09:00", "11:00"}, got)
}

func TestPooledSlots(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, domain.BusinessLocation)
	candidates := []types.TimeString{
		types.MustTimeString("10:00"),
		types.MustTimeString("11:00"),
		types.MustTimeString("12:00"),
	}
	professionals := []*domain.Professional{{ID: "p1"}, {ID: "p2"}}
	appointments := []*domain.Appointment{
		appointment("p1", date, "10:00", "11:00", domain.StatusScheduled),
		appointment("p2", date, "10:00", "12:00", domain.StatusInProgress),
		appointment("p1", date, "11:00", "12:00", domain.StatusScheduled),
		// профессионал не из списка не влияет на расчет
		appointment("p3", date, "12:00", "13:00", domain.StatusScheduled),
	}

	slots := pooledSlots(candidates, 60, professionals, appointments)

	require.Len(t, slots, 1)
	assert.Equal(t, "12:00", slots[0].StartTime.String())
	assert.Equal(t, 2, slots[0].Available)
	assert.Equal(t, 2, slots[0].Total)
}

func TestPooledSlots_PartialAvailability(t *testing.T) {
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, domain.BusinessLocation)
	candidates := []types.TimeString{types.MustTimeString("10:00")}
	professionals := []*domain.Professional{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	appointments := []*domain.Appointment{
		appointment("p2", date, "09:30", "10:30", domain.StatusConfirmed),
	}

	slots := pooledSlots(candidates, 30, professionals, appointments)

	require.Len(t, slots, 1)
	assert.Equal(t, 2, slots[0].Available)
	assert.Equal(t, 3, slots[0].Total)
}
