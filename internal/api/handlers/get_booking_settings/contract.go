package get_booking_settings

import (
	"context"

	"github.com/m04kA/SMC-BookingWidget/internal/service/settings/models"
)

type SettingsService interface {
	GetBookingSettings(ctx context.Context, slug string) (*models.BookingSettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
