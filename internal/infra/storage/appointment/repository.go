package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// Repository репозиторий записей (agendamentos)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// lineItemRecord позиция записи в jsonb колонке servicos
type lineItemRecord struct {
	ServiceID string  `json:"servico_id,omitempty"`
	PackageID string  `json:"pacote_id,omitempty"`
	Name      string  `json:"nome"`
	Price     float64 `json:"preco"`
	Quantity  int     `json:"quantidade"`
	Duration  int     `json:"duracao"`
}

func encodeItems(items []domain.LineItem) ([]byte, error) {
	records := make([]lineItemRecord, len(items))
	for i, item := range items {
		rec := lineItemRecord{
			Name:     item.Name,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
			Duration: item.DurationMinutes,
		}
		switch item.Kind {
		case domain.LineItemService:
			rec.ServiceID = item.SourceID
		case domain.LineItemPackage:
			rec.PackageID = item.SourceID
		default:
			return nil, fmt.Errorf("%w: unknown line item kind %q", ErrEncodeItems, item.Kind)
		}
		records[i] = rec
	}
	return json.Marshal(records)
}

// storedEnd сканер колонки horario_termino. PostgreSQL допускает 24:00:00
// (lib/pq отдает его как 00:00 следующих суток), такое значение читается как 23:59.
type storedEnd struct {
	types.TimeString
}

func (e *storedEnd) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case time.Time:
		if v.YearDay() > 1 {
			return e.setLastMinute()
		}
		return e.TimeString.Scan(v)
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return e.TimeString.Scan(src)
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "24:00") {
		return e.setLastMinute()
	}
	return e.TimeString.Scan(raw)
}

func (e *storedEnd) setLastMinute() error {
	t, err := types.NewTimeStringFromMinutes(types.MinutesPerDay - 1)
	if err != nil {
		return err
	}
	e.TimeString = t
	return nil
}

// LockSchedule берет транзакционную advisory-блокировку расписания по ключу.
// Блокировка держится до конца транзакции, вызывающий должен быть внутри транзакции.
func (r *Repository) LockSchedule(ctx context.Context, key string) error {
	tx, ok := dbmetrics.TxFromContext(ctx)
	if !ok {
		return ErrNotInTransaction
	}

	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key)
	if IsConflict(err) {
		return fmt.Errorf("%w: LockSchedule: %v", ErrSlotNotAvailable, err)
	}
	if err != nil {
		return fmt.Errorf("%w: LockSchedule - execute lock: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByDay получает записи заведения за календарный день (UTC-3).
// Фильтры:
// - ProfessionalID - только записи профессионала (nil - все профессионалы)
// - Statuses - только указанные статусы (пусто - блокирующие статусы)
//
// Внутри транзакции строки блокируются FOR UPDATE.
// Позиции (servicos) не читаются: для расчета пересечений нужны только границы интервала.
func (r *Repository) ListByDay(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dayStart := domain.DayStart(filter.Date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.BlockingStatuses
	}
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"cliente_id",
		"usuario_id",
		"data_hora",
		"horario_termino",
		"status",
	).
		From("agendamentos").
		Where(squirrel.Eq{"estabelecimento_id": filter.BusinessID}).
		Where(squirrel.GtOrEq{"data_hora": dayStart}).
		Where(squirrel.Lt{"data_hora": dayEnd}).
		Where(squirrel.Eq{"status": statusStrings})

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"usuario_id": *filter.ProfessionalID})
	}

	selectBuilder = selectBuilder.OrderBy("data_hora ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if IsConflict(err) {
		return nil, fmt.Errorf("%w: ListByDay: %v", ErrSlotNotAvailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// Create создает запись. Если в контексте есть транзакция, использует её.
// Нарушение exclusion constraint и конфликт сериализации возвращаются как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	items, err := encodeItems(appt.Items)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("agendamentos").
		Columns(
			"estabelecimento_id",
			"cliente_id",
			"cliente",
			"telefone",
			"usuario_id",
			"data_hora",
			"horario_termino",
			"servicos",
			"valor_total",
			"status",
			"observacoes",
			"criar_comanda_automatica",
		).
		Values(
			appt.BusinessID,
			appt.CustomerID,
			appt.CustomerName,
			appt.Phone,
			appt.ProfessionalID,
			appt.StartsAt,
			appt.EndTime,
			string(items),
			appt.TotalPrice,
			string(appt.Status),
			appt.Notes,
			appt.AutoInvoice,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt)
	if IsConflict(err) {
		return nil, fmt.Errorf("%w: Create: %v", ErrSlotNotAvailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time

	return appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var customerID sql.NullString
		var end storedEnd

		err := rows.Scan(
			&appt.ID,
			&appt.BusinessID,
			&customerID,
			&appt.ProfessionalID,
			&appt.StartsAt,
			&end,
			&appt.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		if customerID.Valid {
			appt.CustomerID = &customerID.String
		}

		appt.EndTime = end.TimeString

		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
