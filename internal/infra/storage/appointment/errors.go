package appointment

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSlotNotAvailable возвращается, когда интервал уже занят (нарушение exclusion constraint
	// или конфликт сериализации)
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrNotInTransaction возвращается, когда блокировка расписания запрошена вне транзакции
	ErrNotInTransaction = errors.New("appointment.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")

	// ErrEncodeItems возвращается, когда позиции записи не удалось сериализовать
	ErrEncodeItems = errors.New("appointment.repository: failed to encode line items")
)

// Коды SQLSTATE PostgreSQL
const (
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
)

// IsConflict возвращает true, если ошибка означает занятость интервала:
// ErrSlotNotAvailable, нарушение exclusion constraint или конфликт сериализации
// (в том числе при commit транзакции).
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSlotNotAvailable) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeExclusionViolation || pqErr.Code == codeSerializationFailure
	}
	return false
}
