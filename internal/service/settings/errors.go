package settings

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда заведение не найдено
	ErrBusinessNotFound = errors.New("business not found")

	// ErrBusinessInactive возвращается, когда заведение не активно
	ErrBusinessInactive = errors.New("business is inactive")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
