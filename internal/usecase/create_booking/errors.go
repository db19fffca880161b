package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

var (
	// ErrInvalidRequest возвращается, когда заполнено поле-ловушка для ботов
	ErrInvalidRequest = errors.New("create_booking: invalid request")

	// ErrRateLimited возвращается при превышении лимита запросов с одного адреса
	ErrRateLimited = errors.New("create_booking: too many requests")

	// ErrInvalidPhone возвращается, когда телефон не похож на бразильский номер
	ErrInvalidPhone = errors.New("create_booking: invalid phone")

	// ErrMissingFields возвращается, когда не заполнены обязательные поля
	ErrMissingFields = errors.New("create_booking: required fields missing")

	// ErrNoItemsSelected возвращается, когда не выбрано ни одной услуги или пакета
	ErrNoItemsSelected = errors.New("create_booking: no services or packages selected")

	// ErrInvalidInput возвращается при некорректном формате полей
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrBusinessNotFound возвращается, когда заведение не найдено
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrBusinessInactive возвращается, когда заведение не активно
	ErrBusinessInactive = errors.New("create_booking: business is inactive")

	// ErrBookingDisabled возвращается, когда онлайн-запись выключена
	ErrBookingDisabled = errors.New("create_booking: online booking is disabled")

	// ErrCatalogLookup возвращается, когда выбранные услуги или пакеты не удалось загрузить
	ErrCatalogLookup = errors.New("create_booking: catalog lookup failed")

	// ErrPackagesLookup уточняет ErrCatalogLookup для пакетов
	ErrPackagesLookup = errors.New("create_booking: packages lookup failed")

	// ErrInvalidTimeSlot возвращается, когда запись не помещается в сутки
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда интервал занят другой записью
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError занятый интервал, с которым пересекается новая запись
type ConflictError struct {
	Start time.Time        // data_hora существующей записи
	End   types.TimeString // horario_termino существующей записи
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: overlaps appointment %s-%s", ErrSlotNotAvailable, e.Start.Format(time.RFC3339), e.End)
}

// Unwrap позволяет проверять конфликт через errors.Is(err, ErrSlotNotAvailable)
func (e *ConflictError) Unwrap() error {
	return ErrSlotNotAvailable
}
