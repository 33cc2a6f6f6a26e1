package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-DetailingService/pkg/migrator"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Open открывает соединение с хранилищем выбранного диалекта.
// Для sqlite пул ограничен одним соединением: записи в файл все равно сериализуются.
func Open(dialect sqlbuilder.Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if dialect == sqlbuilder.SQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrations возвращает встроенные миграции диалекта
func Migrations(dialect sqlbuilder.Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+string(dialect))
}

// Migrate применяет встроенные миграции, возвращает количество примененных
func Migrate(ctx context.Context, db *sql.DB, dialect sqlbuilder.Dialect, logger Logger) (int, error) {
	migrations, err := Migrations(dialect)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	return migrator.NewRunner(db, migrations, dialect, logger).Up(ctx)
}
