package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда заведение не найдено
	ErrBusinessNotFound = errors.New("business not found")

	// ErrBusinessInactive возвращается, когда заведение не активно
	ErrBusinessInactive = errors.New("business is inactive")

	// ErrBookingDisabled возвращается, когда онлайн-запись выключена
	ErrBookingDisabled = errors.New("online booking is disabled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
