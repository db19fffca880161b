package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/psqlbuilder"
)

// Repository репозиторий каталога заведения: услуги, пакеты и профессионалы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs получает услуги заведения по списку ID.
// Чужие и несуществующие ID просто отсутствуют в результате.
func (r *Repository) GetServicesByIDs(ctx context.Context, businessID string, ids []string) ([]*domain.Service, error) {
	if len(ids) == 0 {
		return []*domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"nome",
		"preco",
		"duracao",
		"ativo",
		"ordem",
	).
		From("servicos").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(ids))
	for rows.Next() {
		var s domain.Service
		var order sql.NullInt64
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Price, &s.DurationMinutes, &s.Active, &order); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan service: %v", ErrScanRow, err)
		}
		s.Order = int(order.Int64)
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetPackagesByIDs получает пакеты заведения по списку ID
func (r *Repository) GetPackagesByIDs(ctx context.Context, businessID string, ids []string) ([]*domain.Package, error) {
	if len(ids) == 0 {
		return []*domain.Package{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"nome",
		"valor",
		"duracao_total",
	).
		From("pacotes").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPackagesByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackagesByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	packages := make([]*domain.Package, 0, len(ids))
	for rows.Next() {
		var p domain.Package
		var duration sql.NullInt64
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Price, &duration); err != nil {
			return nil, fmt.Errorf("%w: GetPackagesByIDs - scan package: %v", ErrScanRow, err)
		}
		// NULL duracao_total - пакет без длительности
		p.DurationMinutes = int(duration.Int64)
		packages = append(packages, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPackagesByIDs - rows error: %v", ErrScanRow, err)
	}

	return packages, nil
}

// ListProfessionals получает сотрудников заведения, которые ведут прием
func (r *Repository) ListProfessionals(ctx context.Context, businessID string) ([]*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"estabelecimento_id",
		"nome_completo",
		"avatar_url",
	).
		From("usuarios").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Where(squirrel.Eq{"faz_atendimento": true}).
		OrderBy("nome_completo ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProfessionals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	professionals := make([]*domain.Professional, 0)
	for rows.Next() {
		p := domain.Professional{PerformsAppointment: true}
		var avatar sql.NullString
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Name, &avatar); err != nil {
			return nil, fmt.Errorf("%w: ListProfessionals - scan professional: %v", ErrScanRow, err)
		}
		if avatar.Valid {
			p.AvatarURL = &avatar.String
		}
		professionals = append(professionals, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProfessionals - rows error: %v", ErrScanRow, err)
	}

	return professionals, nil
}
