package daily

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 18, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-18", Today(now, nil))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-17", Today(now, ny))
}

func TestParseKey(t *testing.T) {
	_, err := ParseKey("2026-10-18")
	require.NoError(t, err)

	for _, bad := range []string{"", "2026-13-01", "18-10-2026", "2026-10-18T00:00:00Z", "../etc"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestLongDate(t *testing.T) {
	assert.Equal(t, "October 18, 2026", LongDate("2026-10-18"))
	assert.Equal(t, "junk", LongDate("junk"))
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2026-10-11", "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = DaysBetween("2026-10-18", "2026-10-11")
	require.NoError(t, err)
	assert.Equal(t, -7, n)

	_, err = DaysBetween("bad", "2026-10-11")
	assert.Error(t, err)
}
