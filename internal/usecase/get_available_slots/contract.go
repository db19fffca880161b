package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
)

// BusinessRepository интерфейс репозитория заведений
type BusinessRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	GetBookingConfig(ctx context.Context, businessID string) (*domain.BookingConfig, error)
}

// SettingsProvider источник рабочих параметров расписания
type SettingsProvider interface {
	GetOperatingParameters(ctx context.Context, businessID string) (domain.OperatingParameters, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListByDay получает записи заведения за день с учетом фильтра
	ListByDay(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ProfessionalRepository интерфейс репозитория профессионалов
type ProfessionalRepository interface {
	ListProfessionals(ctx context.Context, businessID string) ([]*domain.Professional, error)
}

// MetricsRecorder запись метрик расчета
type MetricsRecorder interface {
	ObserveAvailability(mode string, offered int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
