package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	businessRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/business"
	"github.com/m04kA/SMC-BookingWidget/internal/service/settings/models"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

var operatingKeys = []string{
	domain.SettingOpeningTime,
	domain.SettingClosingTime,
	domain.SettingInterval,
	domain.SettingLeadTimeHours,
}

// Service сервис настроек онлайн-записи заведения
type Service struct {
	businessRepo BusinessRepository
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	businessRepo BusinessRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetOperatingParameters возвращает рабочие параметры расписания заведения.
// Отсутствующие и некорректные значения заменяются значениями по умолчанию.
func (s *Service) GetOperatingParameters(ctx context.Context, businessID string) (domain.OperatingParameters, error) {
	params := domain.DefaultOperatingParameters()

	values, err := s.settingsRepo.GetByKeys(ctx, businessID, operatingKeys)
	if err != nil {
		s.logger.Error("GetOperatingParameters: failed to get settings for business=%s: %v", businessID, err)
		return params, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	if v, ok := values[domain.SettingOpeningTime]; ok {
		if t, err := types.ParseClock(v); err == nil {
			params.OpeningTime = t
		} else {
			s.logger.Warn("GetOperatingParameters: business=%s invalid %s=%q, using default %s",
				businessID, domain.SettingOpeningTime, v, domain.DefaultOpeningTime)
		}
	}

	if v, ok := values[domain.SettingClosingTime]; ok {
		if t, err := types.ParseClock(v); err == nil {
			params.ClosingTime = t
		} else {
			s.logger.Warn("GetOperatingParameters: business=%s invalid %s=%q, using default %s",
				businessID, domain.SettingClosingTime, v, domain.DefaultClosingTime)
		}
	}

	if v, ok := values[domain.SettingInterval]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			params.IntervalMinutes = n
		} else {
			s.logger.Warn("GetOperatingParameters: business=%s invalid %s=%q, using default %d",
				businessID, domain.SettingInterval, v, domain.DefaultIntervalMinutes)
		}
	}

	if v, ok := values[domain.SettingLeadTimeHours]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			params.LeadTimeHours = n
		} else {
			s.logger.Warn("GetOperatingParameters: business=%s invalid %s=%q, using default %d",
				businessID, domain.SettingLeadTimeHours, v, domain.DefaultLeadTimeHours)
		}
	}

	return params, nil
}

// GetBookingSettings возвращает публичные настройки страницы записи по ссылке заведения.
// Выключенная или отсутствующая конфигурация не ошибка: виджет показывает сообщение о недоступности.
func (s *Service) GetBookingSettings(ctx context.Context, slug string) (*models.BookingSettingsResponse, error) {
	business, err := s.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("GetBookingSettings: business slug=%s not found", slug)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("GetBookingSettings: failed to get business slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsActive() {
		s.logger.Warn("GetBookingSettings: business slug=%s is %s", slug, business.Status)
		return nil, ErrBusinessInactive
	}

	cfg, err := s.businessRepo.GetBookingConfig(ctx, business.ID)
	if err != nil && !errors.Is(err, businessRepo.ErrBookingConfigNotFound) {
		s.logger.Error("GetBookingSettings: failed to get booking config for business=%s: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
	}

	params, err := s.GetOperatingParameters(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	return models.FromDomain(business, cfg, params), nil
}
