package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/psqlbuilder"
)

// Repository репозиторий клиентов заведения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindByPhoneDigits ищет клиента заведения по телефону, нормализованному до цифр.
// Поиск идет по индексированной колонке telefone_digits. При дублях берется самая старая карточка.
func (r *Repository) FindByPhoneDigits(ctx context.Context, businessID, digits string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"nome",
		"telefone",
		"telefone_digits",
	).
		From("clientes").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Where(squirrel.Eq{"telefone_digits": digits}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByPhoneDigits - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Customer
	var name, phone sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.BusinessID,
		&name,
		&phone,
		&c.PhoneDigits,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByPhoneDigits - scan customer: %v", ErrScanRow, err)
	}

	c.Name = name.String
	c.Phone = phone.String

	return &c, nil
}
