package business

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

// Repository репозиторий заведений и их настроек онлайн-записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заведений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySlug получает заведение по уникальной ссылке
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"nome",
		"slug",
		"status",
		"telefone",
		"logo_url",
	).
		From("estabelecimentos").
		Where(squirrel.Eq{"slug": slug}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Business
	var phone, logoURL sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.Name,
		&b.Slug,
		&b.Status,
		&phone,
		&logoURL,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlug - scan business: %v", ErrScanRow, err)
	}

	if phone.Valid {
		b.Phone = &phone.String
	}
	if logoURL.Valid {
		b.LogoURL = &logoURL.String
	}

	return &b, nil
}

// GetBookingConfig получает настройки онлайн-записи заведения
func (r *Repository) GetBookingConfig(ctx context.Context, businessID string) (*domain.BookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"ativo",
		"mensagem_boas_vindas",
		"mensagem_pos_agendamento",
	).
		From("agendamento_online_config").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingConfig - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.BookingConfig
	var welcome, confirmation sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.BusinessID,
		&cfg.Enabled,
		&welcome,
		&confirmation,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingConfig - scan config: %v", ErrScanRow, err)
	}

	if welcome.Valid {
		cfg.WelcomeMessage = &welcome.String
	}
	if confirmation.Valid {
		cfg.ConfirmationMessage = &confirmation.String
	}

	return &cfg, nil
}
