package services

import (
	"testing"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		now           time.Time
		expectedKey   string
		expectedIndex int64
	}{
		{
			name:          "anchor instant",
			now:           testhelpers.Anchor,
			expectedKey:   "2025-08-11_2025-08-24",
			expectedIndex: 0,
		},
		{
			name:          "last second of first window",
			now:           time.Date(2025, 8, 24, 23, 59, 59, 0, time.UTC),
			expectedKey:   "2025-08-11_2025-08-24",
			expectedIndex: 0,
		},
		{
			name:          "second window",
			now:           time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
			expectedKey:   "2025-08-25_2025-09-07",
			expectedIndex: 1,
		},
		{
			name:          "far future",
			now:           time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
			expectedKey:   "2026-10-05_2026-10-18",
			expectedIndex: 30,
		},
		{
			name:          "before anchor",
			now:           time.Date(2025, 8, 10, 23, 0, 0, 0, time.UTC),
			expectedKey:   "2025-07-28_2025-08-10",
			expectedIndex: -1,
		},
		{
			name:          "non utc input",
			now:           time.Date(2025, 8, 25, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			expectedKey:   "2025-08-11_2025-08-24",
			expectedIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			window := ComputeWindow(tt.now, testhelpers.Anchor, 14)
			assert.Equal(t, tt.expectedKey, window.Key())
			assert.Equal(t, tt.expectedIndex, window.Index)
			assert.True(t, window.Contains(tt.now.UTC()))
		})
	}
}

func TestNewRoundScheduler_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewRoundScheduler(testhelpers.Anchor, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, 14*24*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, 48*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, time.Nanosecond)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, -14*24*time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, -24*time.Hour)
	assert.NoError(t, err)

	_, err = NewRoundScheduler(testhelpers.Anchor, 14, 0)
	assert.NoError(t, err)
}

func TestRoundScheduler_NewRound(t *testing.T) {
	t.Parallel()

	scheduler, err := NewRoundScheduler(testhelpers.Anchor, 14, -12*time.Hour)
	require.NoError(t, err)

	now := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	round := scheduler.NewRound(scheduler.WindowAt(now))

	assert.Equal(t, "2025-08-11_2025-08-24", round.Key)
	assert.Equal(t, time.Date(2025, 8, 24, 12, 0, 0, 0, time.UTC), round.VisibleFrom)
	assert.Equal(t, time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC), round.VisibleUntil)
	assert.Equal(t, int64(1), round.Ledger.NextTicketNumber)
	assert.Equal(t, "2025-07-28_2025-08-10", scheduler.PreviousWindow(now).Key())
}
