package create_booking

import (
	"context"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
)

// BusinessRepository интерфейс репозитория заведений
type BusinessRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	GetBookingConfig(ctx context.Context, businessID string) (*domain.BookingConfig, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, businessID string, ids []string) ([]*domain.Service, error)
	GetPackagesByIDs(ctx context.Context, businessID string, ids []string) ([]*domain.Package, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	FindByPhoneDigits(ctx context.Context, businessID, digits string) (*domain.Customer, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	LockSchedule(ctx context.Context, key string) error
	ListByDay(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// RateLimiter ограничитель частоты запросов по ключу
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder запись исходов создания записи
type MetricsRecorder interface {
	RecordBookingOutcome(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
