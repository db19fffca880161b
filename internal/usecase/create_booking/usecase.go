package create_booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/business"
	customerRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/customer"
	"github.com/m04kA/SMC-BookingWidget/pkg/keylock"
	"github.com/m04kA/SMC-BookingWidget/pkg/phone"
	"github.com/m04kA/SMC-BookingWidget/pkg/ptr"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

var tracer = otel.Tracer("github.com/m04kA/SMC-BookingWidget/internal/usecase/create_booking")

// Исходы создания записи для метрик
const (
	OutcomeCreated      = "created"
	OutcomeHoneypot     = "honeypot"
	OutcomeRateLimited  = "rate_limited"
	OutcomeInvalidInput = "invalid_input"
	OutcomeNotFound     = "not_found"
	OutcomeUnavailable  = "unavailable"
	OutcomeConflict     = "conflict"
	OutcomeCatalogError = "catalog_error"
	OutcomeInternal     = "internal"
)

// unknownClient ключ rate limit для запросов без адреса
const unknownClient = "unknown"

// UseCase use case создания записи через публичную форму
type UseCase struct {
	businessRepo    BusinessRepository
	catalogRepo     CatalogRepository
	customerRepo    CustomerRepository
	appointmentRepo AppointmentRepository
	rateLimiter     RateLimiter
	rateLimitOpen   bool
	txManager       TransactionManager
	locks           *keylock.KeyLock
	metrics         MetricsRecorder
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// rateLimitOpen - пропускать запрос, если ограничитель недоступен.
func NewUseCase(
	businessRepo BusinessRepository,
	catalogRepo CatalogRepository,
	customerRepo CustomerRepository,
	appointmentRepo AppointmentRepository,
	rateLimiter RateLimiter,
	rateLimitOpen bool,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		businessRepo:    businessRepo,
		catalogRepo:     catalogRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
		rateLimiter:     rateLimiter,
		rateLimitOpen:   rateLimitOpen,
		txManager:       txManager,
		locks:           keylock.New(),
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		uc.record(outcomeOf(err))
	}()

	uc.logger.Info("CreateBooking: slug=%s, professional=%s, date=%s, time=%s, services=%d, packages=%d",
		req.Slug, req.ProfessionalID, req.Date, req.Time, len(req.ServiceIDs), len(req.PackageIDs))

	// 1. Ловушка для ботов
	if strings.TrimSpace(req.Honeypot) != "" {
		uc.logger.Warn("CreateBooking: honeypot filled, client=%s", req.ClientAddress)
		return nil, ErrInvalidRequest
	}

	// 2. Ограничение частоты по адресу клиента
	if err := uc.checkRateLimit(ctx, req.ClientAddress); err != nil {
		return nil, err
	}

	// 3. Телефон
	if !phone.IsValidBrazilian(req.Phone) {
		uc.logger.Warn("CreateBooking: invalid phone from client=%s", req.ClientAddress)
		return nil, ErrInvalidPhone
	}

	// 4. Обязательные поля и формат
	if err := validateRequired(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	parsed, err := parseRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("booking.slug", req.Slug),
		attribute.String("booking.professional_id", req.ProfessionalID),
		attribute.String("booking.date", req.Date),
	)

	// 5. Заведение и настройки онлайн-записи
	business, err := uc.loadBusiness(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	// 6. Позиции записи
	items, err := uc.resolveItems(ctx, business.ID, parsed)
	if err != nil {
		return nil, err
	}

	duration := 0
	total := 0.0
	for _, item := range items {
		duration += item.DurationMinutes * item.Quantity
		total += item.UnitPrice * float64(item.Quantity)
	}
	total = math.Round(total*100) / 100

	end, err := parsed.start.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateBooking: appointment %s + %d min does not fit the day", parsed.start, duration)
		return nil, fmt.Errorf("%w: %s + %d minutes", ErrInvalidTimeSlot, parsed.start, duration)
	}

	// 7. Карточка клиента по телефону
	digits := phone.Digits(req.Phone)
	customerID, customerName := uc.resolveCustomer(ctx, business.ID, digits, parsed.name)

	appt := &domain.Appointment{
		BusinessID:     business.ID,
		CustomerID:     customerID,
		CustomerName:   customerName,
		Phone:          digits,
		ProfessionalID: parsed.professionalID,
		StartsAt:       parsed.start.On(parsed.date, domain.BusinessLocation),
		EndTime:        end,
		Items:          items,
		TotalPrice:     total,
		Status:         domain.StatusScheduled,
		Notes:          parsed.notes,
		AutoInvoice:    true,
	}

	// 8. Проверка пересечений и создание записи
	created, err := uc.reserve(ctx, appt, parsed.date.Format(domain.DateFormat))
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("booking.appointment_id", created.ID))
	uc.logger.Info("CreateBooking: created appointment=%s for business=%s, professional=%s, %s %s-%s, customer_linked=%t",
		created.ID, business.ID, created.ProfessionalID, req.Date, parsed.start, end, created.IsLinkedToCustomer())

	return &Response{
		AppointmentID:   created.ID,
		StartTime:       parsed.start,
		EndTime:         end,
		DurationMinutes: duration,
		TotalPrice:      total,
		Status:          string(created.Status),
		CustomerLinked:  created.IsLinkedToCustomer(),
	}, nil
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordBookingOutcome(outcome)
	}
}

func (uc *UseCase) checkRateLimit(ctx context.Context, address string) error {
	if uc.rateLimiter == nil {
		return nil
	}

	key := strings.TrimSpace(address)
	if key == "" {
		key = unknownClient
	}

	allowed, err := uc.rateLimiter.Allow(ctx, key)
	if err != nil {
		if uc.rateLimitOpen {
			uc.logger.Warn("CreateBooking: rate limiter unavailable, letting client=%s through: %v", key, err)
			return nil
		}
		uc.logger.Error("CreateBooking: rate limiter unavailable for client=%s: %v", key, err)
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	if !allowed {
		uc.logger.Warn("CreateBooking: rate limit exceeded for client=%s", key)
		return ErrRateLimited
	}

	return nil
}

func (uc *UseCase) loadBusiness(ctx context.Context, slug string) (*domain.Business, error) {
	business, err := uc.businessRepo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business slug=%s not found", slug)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business slug=%s: %v", slug, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsActive() {
		uc.logger.Warn("CreateBooking: business slug=%s is %s", slug, business.Status)
		return nil, ErrBusinessInactive
	}

	cfg, err := uc.businessRepo.GetBookingConfig(ctx, business.ID)
	if err != nil && !errors.Is(err, businessRepo.ErrBookingConfigNotFound) {
		uc.logger.Error("CreateBooking: failed to get booking config for business=%s: %v", business.ID, err)
		return nil, fmt.Errorf("%w: failed to get booking config: %v", ErrInternal, err)
	}
	if cfg == nil || !cfg.Enabled {
		uc.logger.Warn("CreateBooking: online booking disabled for business=%s", business.ID)
		return nil, ErrBookingDisabled
	}

	return business, nil
}

// resolveItems загружает выбранные услуги и пакеты заведения.
// Не найденный ID - ошибка целостности данных, а не пользовательская ошибка.
// Порядок позиций: сначала услуги, затем пакеты, каждая группа в порядке запроса.
func (uc *UseCase) resolveItems(ctx context.Context, businessID string, parsed *parsedRequest) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(parsed.serviceIDs)+len(parsed.packageIDs))

	if len(parsed.serviceIDs) > 0 {
		services, err := uc.catalogRepo.GetServicesByIDs(ctx, businessID, parsed.serviceIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get services for business=%s: %v", businessID, err)
			return nil, fmt.Errorf("%w: services: %v", ErrCatalogLookup, err)
		}

		byID := make(map[string]*domain.Service, len(services))
		for _, s := range services {
			byID[strings.ToLower(s.ID)] = s
		}
		for _, id := range parsed.serviceIDs {
			s, ok := byID[id]
			if !ok {
				uc.logger.Warn("CreateBooking: service=%s not found in business=%s", id, businessID)
				return nil, fmt.Errorf("%w: service %s not found", ErrCatalogLookup, id)
			}
			items = append(items, s.ToLineItem())
		}
	}

	if len(parsed.packageIDs) > 0 {
		packages, err := uc.catalogRepo.GetPackagesByIDs(ctx, businessID, parsed.packageIDs)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get packages for business=%s: %v", businessID, err)
			return nil, fmt.Errorf("%w: %w: %v", ErrCatalogLookup, ErrPackagesLookup, err)
		}

		byID := make(map[string]*domain.Package, len(packages))
		for _, p := range packages {
			byID[strings.ToLower(p.ID)] = p
		}
		for _, id := range parsed.packageIDs {
			p, ok := byID[id]
			if !ok {
				uc.logger.Warn("CreateBooking: package=%s not found in business=%s", id, businessID)
				return nil, fmt.Errorf("%w: %w: package %s not found", ErrCatalogLookup, ErrPackagesLookup, id)
			}
			items = append(items, p.ToLineItem())
		}
	}

	return items, nil
}

// resolveCustomer ищет карточку клиента по цифрам телефона.
// Найдена - запись привязывается к ней и берет имя из карточки, иначе остается введенное имя.
// Ошибка поиска не мешает записи: она создается без привязки.
func (uc *UseCase) resolveCustomer(ctx context.Context, businessID, digits, name string) (*string, string) {
	customer, err := uc.customerRepo.FindByPhoneDigits(ctx, businessID, digits)
	if err != nil {
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer lookup failed for business=%s, booking stays unlinked: %v", businessID, err)
		}
		return nil, name
	}

	if strings.TrimSpace(customer.Name) != "" {
		name = customer.Name
	}
	return ptr.Ptr(customer.ID), name
}

// reserve атомарно проверяет пересечения и создает запись.
// Запросы на одно расписание (заведение, профессионал, день) сериализуются
// локальной блокировкой и advisory lock в транзакции.
func (uc *UseCase) reserve(ctx context.Context, appt *domain.Appointment, date string) (*domain.Appointment, error) {
	key := scheduleKey(appt.BusinessID, appt.ProfessionalID, date)
	unlock := uc.locks.Lock(key)
	defer unlock()

	var created *domain.Appointment
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockSchedule(txCtx, key); err != nil {
			return err
		}

		existing, err := uc.appointmentRepo.ListByDay(txCtx, domain.AppointmentsFilter{
			BusinessID:     appt.BusinessID,
			ProfessionalID: ptr.Ptr(appt.ProfessionalID),
			Date:           appt.StartsAt.In(domain.BusinessLocation),
		})
		if err != nil {
			return err
		}

		start := appt.StartTime()
		for _, other := range existing {
			if other.Overlaps(start, appt.EndTime) {
				return &ConflictError{Start: other.StartsAt, End: other.EndTime}
			}
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		return err
	})
	if err == nil {
		return created, nil
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		uc.logger.Warn("CreateBooking: %s %s-%s overlaps appointment at %s-%s for professional=%s",
			date, appt.StartTime(), appt.EndTime, types.NewTimeString(conflict.Start.In(domain.BusinessLocation)), conflict.End, appt.ProfessionalID)
		return nil, conflict
	}
	if appointmentRepo.IsConflict(err) {
		uc.logger.Warn("CreateBooking: concurrent booking won %s %s-%s for professional=%s: %v",
			date, appt.StartTime(), appt.EndTime, appt.ProfessionalID, err)
		return nil, ErrSlotNotAvailable
	}

	uc.logger.Error("CreateBooking: failed to create appointment for business=%s: %v", appt.BusinessID, err)
	return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
}

func scheduleKey(businessID, professionalID, date string) string {
	return businessID + "|" + professionalID + "|" + date
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, ErrInvalidRequest):
		return OutcomeHoneypot
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrNoItemsSelected),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidTimeSlot):
		return OutcomeInvalidInput
	case errors.Is(err, ErrBusinessNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrBusinessInactive), errors.Is(err, ErrBookingDisabled):
		return OutcomeUnavailable
	case errors.Is(err, ErrSlotNotAvailable):
		return OutcomeConflict
	case errors.Is(err, ErrCatalogLookup):
		return OutcomeCatalogError
	default:
		return OutcomeInternal
	}
}
