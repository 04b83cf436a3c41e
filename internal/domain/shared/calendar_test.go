package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesBusinessCalendar(t *testing.T) {
	t.Run("late UTC evening is already the next day", func(t *testing.T) {
		clock := ClockFunc(func() time.Time {
			return time.Date(2024, 1, 14, 19, 0, 0, 0, time.UTC)
		})
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Today(clock))
	})

	t.Run("early UTC morning stays on the same day", func(t *testing.T) {
		clock := ClockFunc(func() time.Time {
			return time.Date(2024, 1, 14, 18, 29, 0, 0, time.UTC)
		})
		assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), Today(clock))
	})
}

func TestAddDays(t *testing.T) {
	d := time.Date(2024, 2, 28, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), AddDays(d, 1))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), AddDays(d, 2))
	assert.Equal(t, time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), AddDays(d, -1))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2016-05-18")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 5, 18, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("18/05/2016")
	assert.Error(t, err)
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError(CodeDataInUse, "HP entry 7 is in use")
	assert.ErrorIs(t, err, ErrDataInUse)
	assert.NotErrorIs(t, err, ErrNotFound)
}
