package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// BusinessLocation фиксированный часовой пояс заведений (UTC-3, без летнего времени)
var BusinessLocation = time.FixedZone("BRT", -3*60*60)

// Значения рабочих параметров по умолчанию
const (
	DefaultOpeningTime     = "08:00"
	DefaultClosingTime     = "18:00"
	DefaultIntervalMinutes = 30
	DefaultLeadTimeHours   = 2
)

// Ключи таблицы настроек (configuracoes)
const (
	SettingOpeningTime   = "horario_inicio"
	SettingClosingTime   = "horario_fim"
	SettingInterval      = "intervalo_agendamentos"
	SettingLeadTimeHours = "agendamento_online_antecedencia_horas"
)

// Бизнес-ограничения
const (
	MaxNotesLength        = 500
	MaxCustomerNameLength = 120
	MaxRequestedDuration  = types.MinutesPerDay
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OperatingParameters рабочие параметры расписания заведения
type OperatingParameters struct {
	OpeningTime     types.TimeString
	ClosingTime     types.TimeString
	IntervalMinutes int
	LeadTimeHours   int
}

// DefaultOperatingParameters параметры по умолчанию (08:00-18:00, шаг 30 минут, 2 часа до записи)
func DefaultOperatingParameters() OperatingParameters {
	return OperatingParameters{
		OpeningTime:     types.MustTimeString(DefaultOpeningTime),
		ClosingTime:     types.MustTimeString(DefaultClosingTime),
		IntervalMinutes: DefaultIntervalMinutes,
		LeadTimeHours:   DefaultLeadTimeHours,
	}
}

// LeadTimeMinutes минимальная антецеденция в минутах
func (p OperatingParameters) LeadTimeMinutes() int {
	return p.LeadTimeHours * 60
}

// DayStart начало дня date в часовом поясе заведения
func DayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, BusinessLocation)
}
