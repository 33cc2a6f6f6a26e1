package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timestampLayouts форматы, в которых sqlite может вернуть TIMESTAMP текстом
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp момент времени для колонок TIMESTAMP(TZ).
// Хранится в UTC; сканируется и из time.Time (postgres), и из текста (sqlite).
type Timestamp struct {
	time.Time
}

// NewTimestamp создает Timestamp в UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Value реализует driver.Valuer
func (ts Timestamp) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return ts.UTC(), nil
}

// Scan реализует sql.Scanner
func (ts *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("types.Timestamp: cannot scan %T", src)
	}
}

func (ts *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("types.Timestamp: cannot parse %q", s)
}
