package business

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда заведение не найдено
	ErrBusinessNotFound = errors.New("business.repository: business not found")

	// ErrBookingConfigNotFound возвращается, когда у заведения нет настроек онлайн-записи
	ErrBookingConfigNotFound = errors.New("business.repository: booking config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("business.repository: failed to build query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("business.repository: failed to scan row")
)
