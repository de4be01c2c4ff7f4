// ABOUTME: Tests for calendar date helpers
// ABOUTME: Covers offset round-trips and the sixty-day submission window
package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDaysRollsOverBoundaries(t *testing.T) {
	cases := []struct {
		date string
		n    int
		want string
	}{
		{"2026-01-31", 1, "2026-02-01"},
		{"2026-12-31", 1, "2027-01-01"},
		{"2026-03-01", -1, "2026-02-28"},
		{"2024-02-28", 1, "2024-02-29"}, // leap year
		{"2026-06-15", 0, "2026-06-15"},
		{"2026-06-15", 45, "2026-07-30"},
	}

	for _, tc := range cases {
		got, err := AddDays(tc.date, tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "AddDays(%s, %d)", tc.date, tc.n)
	}
}

func TestAddDaysRoundTrip(t *testing.T) {
	dates := []string{"2026-01-01", "2026-02-28", "2026-10-25", "2026-12-31"}
	offsets := []int{1, 7, 30, 60, 365, -1, -14, -400}

	for _, d := range dates {
		for _, n := range offsets {
			fwd, err := AddDays(d, n)
			require.NoError(t, err)
			back, err := AddDays(fwd, -n)
			require.NoError(t, err)
			assert.Equal(t, d, back, "AddDays(AddDays(%s, %d), %d)", d, n, -n)
		}
	}
}

func TestAddDaysInvalidInput(t *testing.T) {
	_, err := AddDays("not-a-date", 1)
	assert.Error(t, err)
}

func TestWithinNextSixtyDays(t *testing.T) {
	today := Today()

	assert.True(t, WithinNextSixtyDays(today))

	at60, err := AddDays(today, 60)
	require.NoError(t, err)
	assert.True(t, WithinNextSixtyDays(at60))

	at61, err := AddDays(today, 61)
	require.NoError(t, err)
	assert.False(t, WithinNextSixtyDays(at61))

	yesterday, err := AddDays(today, -1)
	require.NoError(t, err)
	assert.False(t, WithinNextSixtyDays(yesterday))

	assert.False(t, WithinNextSixtyDays(""))
	assert.False(t, WithinNextSixtyDays("garbage"))
}

func TestDaysUntil(t *testing.T) {
	today := Today()

	in7, err := AddDays(today, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, DaysUntil(in7))

	assert.Equal(t, 0, DaysUntil(today))
	assert.Equal(t, 0, DaysUntil(""))

	ago3, err := AddDays(today, -3)
	require.NoError(t, err)
	assert.Equal(t, -3, DaysUntil(ago3))
}
