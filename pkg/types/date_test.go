package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 2), d)
	assert.Equal(t, "2024-06-02", d.String())

	_, err = ParseDate("06/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestDateOf_UsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	late := time.Date(2024, time.June, 1, 23, 30, 0, 0, loc)

	assert.Equal(t, MustParseDate("2024-06-01"), DateOf(late))
	assert.Equal(t, MustParseDate("2024-06-02"), DateOf(late.UTC()))
}

func TestDate_Arithmetic(t *testing.T) {
	today := MustParseDate("2024-06-01")

	assert.Equal(t, MustParseDate("2024-07-31"), today.AddDays(60))
	assert.Equal(t, 75, today.DaysUntil(MustParseDate("2024-08-15")))
	assert.Equal(t, -1, today.DaysUntil(MustParseDate("2024-05-31")))
	assert.True(t, today.Before(today.AddDays(1)))
	assert.True(t, today.AddDays(1).After(today))
	assert.True(t, today.Equal(NewDate(2024, time.June, 1)))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want Date
	}{
		{name: "postgres time", src: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), want: MustParseDate("2024-06-02")},
		{name: "sqlite text", src: "2024-06-02", want: MustParseDate("2024-06-02")},
		{name: "text with time suffix", src: "2024-06-02T00:00:00Z", want: MustParseDate("2024-06-02")},
		{name: "bytes", src: []byte("2024-06-02"), want: MustParseDate("2024-06-02")},
		{name: "null", src: nil, want: Date{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	raw, err := json.Marshal(payload{Date: MustParseDate("2024-06-10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-10"}`, string(raw))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-10"}`), &p))
	assert.Equal(t, MustParseDate("2024-06-10"), p.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"10.06.2024"}`), &p))
}

func TestDatesInRange(t *testing.T) {
	dates := DatesInRange(MustParseDate("2024-06-29"), MustParseDate("2024-07-02"))
	require.Len(t, dates, 4)
	assert.Equal(t, "2024-06-29", dates[0].String())
	assert.Equal(t, "2024-07-02", dates[3].String())

	assert.Empty(t, DatesInRange(MustParseDate("2024-07-02"), MustParseDate("2024-06-29")))
}
