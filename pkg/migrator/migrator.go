package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
)

// Migration одна миграция схемы
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Runner применяет миграции из fs.FS (файлы вида NNN_name.sql)
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	builder sqlbuilder.Builder
	logger  Logger
}

// NewRunner создает раннер миграций
func NewRunner(db *sql.DB, migrationFS fs.FS, dialect sqlbuilder.Dialect, logger Logger) *Runner {
	return &Runner{
		db:      db,
		fs:      migrationFS,
		builder: sqlbuilder.New(dialect),
		logger:  logger,
	}
}

// CurrentVersion возвращает текущую версию схемы, 0 для пустой БД
func (r *Runner) CurrentVersion(ctx context.Context) (int, error) {
	if err := r.ensureVersionTable(ctx); err != nil {
		return 0, err
	}

	var version int
	err := r.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// Migrations читает и сортирует файлы миграций
func (r *Runner) Migrations() ([]Migration, error) {
	files, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]Migration, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		parts := strings.SplitN(file.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", file.Name())
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil || version < 1 {
			return nil, fmt.Errorf("invalid version number in migration filename %s", file.Name())
		}

		content, err := fs.ReadFile(r.fs, file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// Up применяет все еще не примененные миграции, возвращает их количество
func (r *Runner) Up(ctx context.Context) (int, error) {
	current, err := r.CurrentVersion(ctx)
	if err != nil {
		return 0, err
	}

	migrations, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(migrations) == 0 {
		return 0, nil
	}

	latest := migrations[len(migrations)-1].Version
	if current > latest {
		return 0, fmt.Errorf("database schema version %d is newer than supported version %d", current, latest)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return applied, err
		}
		applied++
		r.logger.Info("Migrator: applied migration %03d_%s", m.Version, m.Name)
	}

	if applied == 0 {
		r.logger.Info("Migrator: schema is up to date (version %d)", current)
	}
	return applied, nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version in migration %d: %w", m.Version, err)
	}

	query, args, err := r.builder.Insert("schema_version").Columns("version").Values(m.Version).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build schema version query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set schema version in migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

func (r *Runner) ensureVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)")
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}
