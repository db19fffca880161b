package settings

import (
	"context"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
)

// BusinessRepository интерфейс репозитория заведений
type BusinessRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	GetBookingConfig(ctx context.Context, businessID string) (*domain.BookingConfig, error)
}

// SettingsRepository интерфейс репозитория настроек ключ-значение
type SettingsRepository interface {
	GetByKeys(ctx context.Context, businessID string, keys []string) (map[string]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
