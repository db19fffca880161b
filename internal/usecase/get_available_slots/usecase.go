package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	businessRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/business"
	"github.com/m04kA/SMC-BookingWidget/pkg/ptr"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-BookingWidget/internal/usecase/get_available_slots")

// UseCase use case расчета доступного времени для записи
type UseCase struct {
	businessRepo     BusinessRepository
	settings         SettingsProvider
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	metrics          MetricsRecorder
	lookupFailure    string
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// lookupFailure - поведение при ошибке загрузки профессионалов: "empty" или "error".
func NewUseCase(
	businessRepo BusinessRepository,
	settings SettingsProvider,
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	metrics MetricsRecorder,
	lookupFailure string,
	logger Logger,
) *UseCase {
	if lookupFailure != LookupFailureError {
		lookupFailure = LookupFailureEmpty
	}
	return &UseCase{
		businessRepo:     businessRepo,
		settings:         settings,
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		metrics:          metrics,
		lookupFailure:    lookupFailure,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступного времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "GetAvailableSlots")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("GetAvailableSlots: slug=%s, professional=%q, date=%s, duration=%d",
		req.Slug, req.ProfessionalID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	mode := ModeSingle
	if req.IsPooled() {
		mode = ModePooled
	}
	span.SetAttributes(
		attribute.String("booking.slug", req.Slug),
		attribute.String("booking.mode", mode),
		attribute.Int("booking.duration_minutes", req.DurationMinutes),
	)

	// 2. Заведение и настройки онлайн-записи
	business, err := uc.loadBusiness(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	// 3. Рабочие параметры
	params, err := uc.settings.GetOperatingParameters(ctx, business.ID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get operating parameters for business=%s: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to get operating parameters: %v", ErrInternal, err)
	}

	// 4. Сетка времен начала
	now := uc.timeProvider.Now().In(domain.BusinessLocation).Truncate(time.Minute)
	candidates := generateCandidates(params, req.DurationMinutes, req.Date, now)

	resp = &Response{
		Date:            req.Date,
		ProfessionalID:  req.ProfessionalID,
		DurationMinutes: req.DurationMinutes,
		Slots:           []domain.AvailableSlot{},
	}
	if mode == ModePooled {
		resp.ProfessionalID = AnyProfessional
	}

	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: no candidates for business=%s on %s", business.ID, req.Date.Format(domain.DateFormat))
		uc.observe(mode, 0)
		return resp, nil
	}

	// 5. Занятость
	if mode == ModeSingle {
		err = uc.fillSingle(ctx, business.ID, req, candidates, resp)
	} else {
		err = uc.fillPooled(ctx, business.ID, req, candidates, resp)
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("booking.slots_offered", len(resp.Slots)),
		attribute.Bool("booking.degraded", resp.Degraded),
	)
	uc.observe(mode, len(resp.Slots))

	uc.logger.Info("GetAvailableSlots: offered %d of %d slots for business=%s, date=%s, mode=%s",
		len(resp.Slots), len(candidates), business.ID, req.Date.Format(domain.DateFormat), mode)

	return resp, nil
}

func (uc *UseCase) observe(mode string, offered int) {
	if uc.metrics != nil {
		uc.metrics.ObserveAvailability(mode, offered)
	}
}

func (uc *UseCase) loadBusiness(ctx context.Context, slug string) (*domain.Business, error) {
	business, err := uc.businessRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business slug=%s not found", slug)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsActive() {
		uc.logger.Warn("GetAvailableSlots: business slug=%s is %s", slug, business.Status)
		return nil, ErrBusinessInactive
	}

	cfg, err := uc.businessRepo.GetBookingConfig(ctx, business.ID)
	if err != nil && !errors.Is(err, businessRepo.ErrBookingConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get booking config for business=%s: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
	}
	if cfg == nil || !cfg.Enabled {
		uc.logger.Warn("GetAvailableSlots: online booking disabled for business=%s", business.ID)
		return nil, ErrBookingDisabled
	}

	return business, nil
}

// fillSingle расчет для выбранного профессионала.
// Ошибка загрузки записей не отдает клиенту непроверенные слоты: список пуст, ответ помечен degraded.
func (uc *UseCase) fillSingle(ctx context.Context, businessID string, req *Request, candidates []types.TimeString, resp *Response) error {
	appointments, err := uc.appointmentRepo.ListByDay(ctx, domain.AppointmentsFilter{
		BusinessID:     businessID,
		ProfessionalID: ptr.Ptr(req.ProfessionalID),
		Date:           req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for professional=%s: %v", req.ProfessionalID, err)
		resp.Degraded = true
		return nil
	}

	resp.Slots = singleSlots(candidates, req.DurationMinutes, appointments)
	return nil
}

// fillPooled расчет по всем профессионалам, которые ведут прием
func (uc *UseCase) fillPooled(ctx context.Context, businessID string, req *Request, candidates []types.TimeString, resp *Response) error {
	professionals, err := uc.professionalRepo.ListProfessionals(ctx, businessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get professionals for business=%s: %v", businessID, err)
		if uc.lookupFailure == LookupFailureError {
			return fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
		}
		resp.Degraded = true
		return nil
	}

	if len(professionals) == 0 {
		uc.logger.Warn("GetAvailableSlots: business=%s has no professionals", businessID)
		return nil
	}

	appointments, err := uc.appointmentRepo.ListByDay(ctx, domain.AppointmentsFilter{
		BusinessID: businessID,
		Date:       req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for business=%s: %v", businessID, err)
		resp.Degraded = true
		return nil
	}

	resp.Slots = pooledSlots(candidates, req.DurationMinutes, professionals, appointments)
	return nil
}
