package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const businessID = "6f1c1c2e-8f4a-4a57-9f5c-3f0b8f0f5a11"

func TestGetByKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT chave, valor FROM configuracoes WHERE estabelecimento_id = \$1 AND chave IN \(\$2,\$3\)`).
		WithArgs(businessID, "horario_inicio", "horario_fim").
		WillReturnRows(sqlmock.NewRows([]string{"chave", "valor"}).
			AddRow("horario_inicio", "09:00").
			AddRow("horario_fim", nil))

	values, err := repo.GetByKeys(context.Background(), businessID, []string{"horario_inicio", "horario_fim"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"horario_inicio": "09:00"}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByKeys_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`FROM configuracoes`).WillReturnError(errors.New("timeout"))

	_, err = repo.GetByKeys(context.Background(), businessID, []string{"horario_inicio"})
	assert.ErrorIs(t, err, ErrExecQuery)
}
