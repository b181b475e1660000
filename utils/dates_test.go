package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/bondval/utils"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain forward", d(2024, time.March, 15), 6, d(2024, time.September, 15)},
		{"plain backward", d(2034, time.May, 15), -6, d(2033, time.November, 15)},
		{"month end clamps forward", d(2024, time.January, 31), 1, d(2024, time.February, 29)},
		{"month end clamps forward non leap", d(2023, time.January, 31), 1, d(2023, time.February, 28)},
		{"month end clamps backward", d(2024, time.May, 31), -6, d(2023, time.November, 30)},
		{"day 30 over february", d(2029, time.March, 30), -1, d(2029, time.February, 28)},
		{"year boundary", d(2024, time.January, 20), -3, d(2023, time.October, 20)},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, utils.AddMonth(tc.start, tc.months))
		})
	}
}

func TestDays(t *testing.T) {
	t.Parallel()

	require.Equal(t, 181.0, utils.Days(d(2022, time.November, 15), d(2023, time.May, 15)))
	require.Equal(t, 366.0, utils.Days(d(2024, time.January, 1), d(2025, time.January, 1)))
	require.Equal(t, -1.0, utils.Days(d(2024, time.January, 2), d(2024, time.January, 1)))
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	// The nearest float64 to the input scales to ...616.5000x, so the
	// half rounds away from zero.
	require.Equal(t, 99.1405640617, utils.RoundTo(99.14056406164999, 10))
	require.Equal(t, 99.1405640616, utils.RoundTo(99.14056406161, 10))
	require.Equal(t, 1.15, utils.RoundTo(1.147, 2))
	require.Equal(t, -0.0159, utils.RoundTo(-0.01585461956521739, 4))
}
