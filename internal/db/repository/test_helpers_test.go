package repository

import (
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewStore(mock), mock
}

func sqlPattern(s string) string {
	return regexp.QuoteMeta(s)
}

var questionRowColumns = []string{"id", "question", "answer", "category", "difficulty"}
