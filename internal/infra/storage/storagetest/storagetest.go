// Package storagetest поднимает sqlite базу с примененными миграциями для тестов
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/config"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
)

// Dialect диалект тестовой базы
const Dialect = sqlbuilder.SQLite

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

// NewDB создает пустую базу в t.TempDir() и применяет миграции
func NewDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "detailing.db")
	db, err := storage.Open(Dialect, config.SQLiteDSN(path))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = storage.Migrate(context.Background(), db, Dialect, nopLogger{})
	require.NoError(t, err)

	return dbmetrics.Wrap(db, nil)
}
