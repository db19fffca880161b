package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/ptr"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

const (
	businessID     = "6f1c1c2e-8f4a-4a57-9f5c-3f0b8f0f5a11"
	professionalID = "0d7b6a3c-2b1e-4a8f-9c3d-5e6f7a8b9c0d"
)

var listColumns = []string{
	"id", "estabelecimento_id", "cliente_id", "usuario_id", "data_hora", "horario_termino", "status",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListByDay(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, domain.BusinessLocation)
	startsAt := time.Date(2026, 3, 10, 10, 0, 0, 0, domain.BusinessLocation)

	mock.ExpectQuery(`^SELECT id, estabelecimento_id, cliente_id, usuario_id, data_hora, horario_termino, status FROM agendamentos WHERE estabelecimento_id = \$1 AND data_hora >= \$2 AND data_hora < \$3 AND status IN \(\$4,\$5,\$6\) AND usuario_id = \$7 ORDER BY data_hora ASC$`).
		WithArgs(businessID, date, date.AddDate(0, 0, 1), "agendado", "confirmado", "em_atendimento", professionalID).
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("a1", businessID, nil, professionalID, startsAt, "11:00:00", "confirmado"))

	appointments, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{
		BusinessID:     businessID,
		ProfessionalID: ptr.Ptr(professionalID),
		Date:           date,
	})
	require.NoError(t, err)
	require.Len(t, appointments, 1)

	appt := appointments[0]
	assert.Equal(t, "10:00", appt.StartTime().String())
	assert.Equal(t, "11:00", appt.EndTime.String())
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Nil(t, appt.CustomerID)
	assert.Empty(t, appt.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDay_EndAtMidnight(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, domain.BusinessLocation)
	// lib/pq декодирует колонку time в time.Time, 24:00:00 - это 00:00 второго января
	pqMidnight := time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)
	pqEvening := time.Date(0, 1, 1, 22, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM agendamentos`).
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("a1", businessID, nil, professionalID, time.Date(2026, 3, 10, 22, 0, 0, 0, domain.BusinessLocation), "24:00:00", "confirmado").
			AddRow("a2", businessID, nil, professionalID, time.Date(2026, 3, 10, 21, 0, 0, 0, domain.BusinessLocation), pqMidnight, "agendado").
			AddRow("a3", businessID, nil, professionalID, time.Date(2026, 3, 10, 22, 0, 0, 0, domain.BusinessLocation), pqEvening, "agendado"))

	appointments, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{BusinessID: businessID, Date: date})
	require.NoError(t, err)
	require.Len(t, appointments, 3)
	assert.Equal(t, "23:59", appointments[0].EndTime.String())
	assert.Equal(t, "23:59", appointments[1].EndTime.String())
	assert.Equal(t, "22:30", appointments[2].EndTime.String())
	assert.True(t, appointments[0].Overlaps(types.MustTimeString("23:00"), types.MustTimeString("23:30")))
}

func TestListByDay_InvalidEndTime(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM agendamentos`).
		WillReturnRows(sqlmock.NewRows(listColumns).
			AddRow("a1", businessID, nil, professionalID, time.Now(), "25:00:00", "confirmado"))

	_, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{BusinessID: businessID, Date: time.Now()})
	assert.ErrorIs(t, err, ErrScanRow)
}

func TestListByDay_AllProfessionalsCustomStatuses(t *testing.T) {
	repo, mock := newMock(t)

	date := time.Date(2026, 3, 10, 15, 30, 0, 0, domain.BusinessLocation)

	mock.ExpectQuery(`FROM agendamentos WHERE estabelecimento_id = \$1 AND data_hora >= \$2 AND data_hora < \$3 AND status IN \(\$4\) ORDER BY data_hora ASC$`).
		WithArgs(businessID, domain.DayStart(date), domain.DayStart(date).AddDate(0, 0, 1), "cancelado").
		WillReturnRows(sqlmock.NewRows(listColumns))

	appointments, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{
		BusinessID: businessID,
		Date:       date,
		Statuses:   []domain.AppointmentStatus{domain.StatusCancelled},
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDay_ForUpdateInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM agendamentos .* ORDER BY data_hora ASC FOR UPDATE$`).
		WillReturnRows(sqlmock.NewRows(listColumns))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	_, err = repo.ListByDay(ctx, domain.AppointmentsFilter{BusinessID: businessID, Date: time.Now()})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDay_QueryError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM agendamentos`).WillReturnError(errors.New("connection refused"))

	_, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{BusinessID: businessID, Date: time.Now()})
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestListByDay_SerializationFailure(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM agendamentos`).WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.ListByDay(context.Background(), domain.AppointmentsFilter{BusinessID: businessID, Date: time.Now()})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.True(t, IsConflict(err))
}

func TestLockSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("outside transaction", func(t *testing.T) {
		err := repo.LockSchedule(context.Background(), "key")
		assert.ErrorIs(t, err, ErrNotInTransaction)
	})

	t.Run("inside transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
			WithArgs("b|p|2026-03-10").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		require.NoError(t, err)

		err = repo.LockSchedule(dbmetrics.WithTx(context.Background(), tx), "b|p|2026-03-10")
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newAppointment() *domain.Appointment {
	return &domain.Appointment{
		BusinessID:     businessID,
		CustomerName:   "Maria",
		Phone:          "11999998888",
		ProfessionalID: professionalID,
		StartsAt:       time.Date(2026, 3, 10, 10, 0, 0, 0, domain.BusinessLocation),
		EndTime:        types.MustTimeString("11:00"),
		Items: []domain.LineItem{
			{Kind: domain.LineItemService, SourceID: "s1", Name: "Corte", UnitPrice: 45, Quantity: 1, DurationMinutes: 60},
		},
		TotalPrice:  45,
		Status:      domain.StatusScheduled,
		AutoInvoice: true,
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	appt := newAppointment()
	createdAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO agendamentos \(estabelecimento_id,cliente_id,cliente,telefone,usuario_id,data_hora,horario_termino,servicos,valor_total,status,observacoes,criar_comanda_automatica\) VALUES .* RETURNING id, created_at`).
		WithArgs(
			businessID,
			nil,
			"Maria",
			"11999998888",
			professionalID,
			appt.StartsAt,
			"11:00:00",
			`[{"servico_id":"s1","nome":"Corte","preco":45,"quantidade":1,"duracao":60}]`,
			45.0,
			"agendado",
			nil,
			true,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("new-id", createdAt))

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
	assert.Equal(t, createdAt, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ConflictCodes(t *testing.T) {
	for _, code := range []pq.ErrorCode{"23P01", "40001"} {
		t.Run(string(code), func(t *testing.T) {
			repo, mock := newMock(t)

			mock.ExpectQuery(`INSERT INTO agendamentos`).WillReturnError(&pq.Error{Code: code})

			_, err := repo.Create(context.Background(), newAppointment())
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		})
	}
}

func TestCreate_OtherError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO agendamentos`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), newAppointment())
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotNotAvailable)
}

func TestIsConflict(t *testing.T) {
	assert.False(t, IsConflict(nil))
	assert.False(t, IsConflict(errors.New("boom")))
	assert.True(t, IsConflict(ErrSlotNotAvailable))
	assert.True(t, IsConflict(&pq.Error{Code: "23P01"}))
	// конфликт сериализации при commit приходит обернутым через %w
	assert.True(t, IsConflict(errors.Join(errors.New("commit"), &pq.Error{Code: "40001"})))
	assert.False(t, IsConflict(&pq.Error{Code: "23505"}))
}

func TestLineItemsEncoding(t *testing.T) {
	items := []domain.LineItem{
		{Kind: domain.LineItemService, SourceID: "s1", Name: "Corte", UnitPrice: 45, Quantity: 1, DurationMinutes: 30},
		{Kind: domain.LineItemPackage, SourceID: "p1", Name: "Combo", UnitPrice: 99.9, Quantity: 1, DurationMinutes: 0},
	}

	raw, err := encodeItems(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"servico_id":"s1","nome":"Corte","preco":45,"quantidade":1,"duracao":30},
		{"pacote_id":"p1","nome":"Combo","preco":99.9,"quantidade":1,"duracao":0}
	]`, string(raw))

	_, err = encodeItems([]domain.LineItem{{Kind: "gift"}})
	assert.ErrorIs(t, err, ErrEncodeItems)
}
