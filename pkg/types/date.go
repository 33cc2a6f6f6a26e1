package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout формат календарной даты в API и в БД
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDateFormat возвращается при некорректном формате даты
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)

// Date календарная дата без времени суток.
// Внутри хранится полночь UTC, поэтому значения можно сравнивать через == и использовать как ключи map.
type Date struct {
	t time.Time
}

// NewDate создает дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf возвращает календарную дату момента t в его собственной временной зоне
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return DateOf(t), nil
}

// MustParseDate как ParseDate, но паникует при ошибке (для тестов и констант)
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String возвращает дату в формате YYYY-MM-DD
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// Time возвращает полночь UTC этой даты
func (d Date) Time() time.Time {
	return d.t
}

// IsZero возвращает true для незаданной даты
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// AddDays сдвигает дату на n календарных дней
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before возвращает true, если d раньше other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After возвращает true, если d позже other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal возвращает true для одинаковых дат
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil возвращает количество дней от d до other (отрицательное, если other раньше)
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Value реализует driver.Valuer: дата пишется строкой YYYY-MM-DD (одинаково для postgres и sqlite)
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan реализует sql.Scanner.
// postgres отдает DATE как time.Time, sqlite как строку.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("types.Date: cannot scan %T", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON сериализует дату как "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON парсит дату из "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DatesInRange возвращает все даты от start до end включительно по возрастанию
func DatesInRange(start, end Date) []Date {
	if end.Before(start) {
		return []Date{}
	}
	dates := make([]Date, 0, start.DaysUntil(end)+1)
	for day := start; !day.After(end); day = day.AddDays(1) {
		dates = append(dates, day)
	}
	return dates
}
