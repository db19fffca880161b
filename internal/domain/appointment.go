package domain

import (
	"time"

	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// AppointmentStatus статус записи (значения совпадают с хранилищем)
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "agendado"
	StatusConfirmed  AppointmentStatus = "confirmado"
	StatusInProgress AppointmentStatus = "em_atendimento"
	StatusCompleted  AppointmentStatus = "concluido"
	StatusCancelled  AppointmentStatus = "cancelado"
	StatusNoShow     AppointmentStatus = "faltou"
)

// BlockingStatuses статусы, которые занимают время профессионала
var BlockingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}

// IsBlocking возвращает true, если статус занимает время профессионала
func (s AppointmentStatus) IsBlocking() bool {
	for _, blocking := range BlockingStatuses {
		if s == blocking {
			return true
		}
	}
	return false
}

// LineItemKind источник позиции записи
type LineItemKind string

const (
	LineItemService LineItemKind = "servico"
	LineItemPackage LineItemKind = "pacote"
)

// LineItem денормализованная позиция записи.
// Снимок цены и названия на момент записи, последующие правки каталога его не меняют.
type LineItem struct {
	Kind            LineItemKind
	SourceID        string
	Name            string
	UnitPrice       float64
	Quantity        int
	DurationMinutes int
}

// Appointment запись клиента к профессионалу
type Appointment struct {
	ID             string
	BusinessID     string
	CustomerID     *string // nil - контакт не привязан к карточке клиента
	CustomerName   string
	Phone          string // только цифры
	ProfessionalID string
	StartsAt       time.Time        // дата и время начала, UTC-3
	EndTime        types.TimeString // время окончания в тот же день
	Items          []LineItem
	TotalPrice     float64
	Status         AppointmentStatus
	Notes          *string
	AutoInvoice    bool // создать команду автоматически

	CreatedAt time.Time
}

// StartTime время начала в часовом поясе заведения
func (a *Appointment) StartTime() types.TimeString {
	return types.NewTimeString(a.StartsAt.In(BusinessLocation))
}

// DurationMinutes суммарная длительность позиций
func (a *Appointment) DurationMinutes() int {
	total := 0
	for _, item := range a.Items {
		total += item.DurationMinutes * item.Quantity
	}
	return total
}

// IsLinkedToCustomer возвращает true, если запись привязана к карточке клиента
func (a *Appointment) IsLinkedToCustomer() bool {
	return a.CustomerID != nil
}

// Overlaps проверяет пересечение записи с интервалом [start, end).
// Неблокирующие статусы никогда не пересекаются.
func (a *Appointment) Overlaps(start, end types.TimeString) bool {
	if !a.Status.IsBlocking() {
		return false
	}
	return Overlaps(start, end, a.StartTime(), a.EndTime)
}

// Overlaps полуоткрытые интервалы [aStart, aEnd) и [bStart, bEnd).
// Соприкосновение границ (конец одного равен началу другого) пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}

// AppointmentsFilter фильтр записей на конкретный день
type AppointmentsFilter struct {
	BusinessID     string
	ProfessionalID *string // nil - все профессионалы заведения
	Date           time.Time
	Statuses       []AppointmentStatus
}
