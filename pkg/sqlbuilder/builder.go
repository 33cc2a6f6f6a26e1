package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect поддерживаемый диалект SQL
type Dialect string

const (
	// Postgres основное хранилище (драйвер lib/pq)
	Postgres Dialect = "postgres"
	// SQLite встроенное хранилище для одной ноды и тестов (драйвер modernc.org/sqlite)
	SQLite Dialect = "sqlite"
)

// ParseDialect возвращает диалект по имени драйвера из конфигурации
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case Postgres, "postgresql":
		return Postgres, nil
	case SQLite, "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName имя драйвера для sql.Open
func (d Dialect) DriverName() string {
	return string(d)
}

// SupportsRowLocks true, если диалект понимает SELECT ... FOR UPDATE
func (d Dialect) SupportsRowLocks() bool {
	return d == Postgres
}

// Builder squirrel-билдер с плейсхолдерами нужного диалекта
type Builder struct {
	dialect Dialect
	sb      squirrel.StatementBuilderType
}

// New создает билдер для диалекта
func New(dialect Dialect) Builder {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	if dialect == Postgres {
		placeholder = squirrel.Dollar
	}
	return Builder{
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Dialect возвращает диалект билдера
func (b Builder) Dialect() Dialect {
	return b.dialect
}

// Select начинает SELECT запрос
func (b Builder) Select(columns ...string) squirrel.SelectBuilder {
	return b.sb.Select(columns...)
}

// Insert начинает INSERT запрос
func (b Builder) Insert(table string) squirrel.InsertBuilder {
	return b.sb.Insert(table)
}

// Update начинает UPDATE запрос
func (b Builder) Update(table string) squirrel.UpdateBuilder {
	return b.sb.Update(table)
}

// Delete начинает DELETE запрос
func (b Builder) Delete(table string) squirrel.DeleteBuilder {
	return b.sb.Delete(table)
}
