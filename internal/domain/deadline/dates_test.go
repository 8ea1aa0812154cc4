package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Time
		months int
		want   time.Time
	}{
		{"simple", date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{"jan 31 to feb leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 to feb non-leap", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"may 31 to june", date(2024, time.May, 31), 1, date(2024, time.June, 30)},
		{"year rollover", date(2024, time.November, 15), 3, date(2025, time.February, 15)},
		{"24 months limitation", date(2024, time.January, 1), 24, date(2026, time.January, 1)},
		{"feb 29 plus 12 months", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
		{"zero months", date(2024, time.March, 10), 0, date(2024, time.March, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.in, tt.months))
		})
	}
}

func TestAddMonthsClampedPreservesClock(t *testing.T) {
	in := time.Date(2024, time.January, 31, 9, 30, 15, 0, time.UTC)
	got := AddMonthsClamped(in, 1)
	assert.Equal(t, time.Date(2024, time.February, 29, 9, 30, 15, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2024, time.January, 1), date(2024, time.January, 1), 0},
		{"ten days", date(2024, time.January, 1), date(2024, time.January, 11), 10},
		{"reversed", date(2024, time.January, 11), date(2024, time.January, 1), -10},
		{"ignores clock", time.Date(2024, time.January, 1, 23, 0, 0, 0, time.UTC), time.Date(2024, time.January, 2, 1, 0, 0, 0, time.UTC), 1},
		{"across leap day", date(2024, time.February, 28), date(2024, time.March, 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestCeilDays(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"zero", 0, 0},
		{"exact day", 24 * time.Hour, 1},
		{"partial day rounds up", time.Hour, 1},
		{"two and a bit", 49 * time.Hour, 3},
		{"negative truncates", -36 * time.Hour, -1},
		{"negative exact", -48 * time.Hour, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CeilDays(tt.d))
		})
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, time.June, 5, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2024, time.June, 5), StartOfDay(in))
}
