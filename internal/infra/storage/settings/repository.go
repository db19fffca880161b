package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/psqlbuilder"
)

// Repository репозиторий настроек заведения (таблица ключ-значение configuracoes)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByKeys получает значения настроек заведения одним запросом.
// Отсутствующие ключи в результате не появляются. NULL значения пропускаются.
func (r *Repository) GetByKeys(ctx context.Context, businessID string, keys []string) (map[string]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("chave", "valor").
		From("configuracoes").
		Where(squirrel.Eq{"estabelecimento_id": businessID}).
		Where(squirrel.Eq{"chave": keys}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKeys - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKeys - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: GetByKeys - scan setting: %v", ErrScanRow, err)
		}
		if value.Valid {
			values[key] = value.String
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByKeys - rows error: %v", ErrScanRow, err)
	}

	return values, nil
}
