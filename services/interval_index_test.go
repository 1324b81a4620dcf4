package services

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marina-backend/status"
)

func day(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestIntervalIndex_ReserveRejectsInvalidRange(t *testing.T) {
	idx := NewIntervalIndex()

	_, err := idx.Reserve(1, day(3), day(3))
	assert.ErrorIs(t, err, status.ErrInvalidRange)

	_, err = idx.Reserve(1, day(5), day(2))
	assert.ErrorIs(t, err, status.ErrInvalidRange)
}

func TestIntervalIndex_OverlapRejected(t *testing.T) {
	idx := NewIntervalIndex()

	_, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"identical", day(0), day(3)},
		{"contained", day(1), day(2)},
		{"containing", day(-1), day(5)},
		{"overlapping start", day(-2), day(1)},
		{"overlapping end", day(2), day(6)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := idx.Reserve(1, tc.start, tc.end)
			assert.ErrorIs(t, err, status.ErrSlipUnavailable)
		})
	}
}

func TestIntervalIndex_AdjacentRangesAllowed(t *testing.T) {
	idx := NewIntervalIndex()

	_, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	// Half-open semantics: a range starting exactly at the previous
	// check-out does not overlap.
	_, err = idx.Reserve(1, day(3), day(6))
	assert.NoError(t, err)

	_, err = idx.Reserve(1, day(-3), day(0))
	assert.NoError(t, err)
}

func TestIntervalIndex_SlipsAreIndependent(t *testing.T) {
	idx := NewIntervalIndex()

	_, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	_, err = idx.Reserve(2, day(0), day(3))
	assert.NoError(t, err)
}

func TestIntervalIndex_ReleaseAllowsRebooking(t *testing.T) {
	idx := NewIntervalIndex()

	hold, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	hold.Release()

	_, err = idx.Reserve(1, day(1), day(4))
	assert.NoError(t, err)
}

func TestIntervalIndex_DoubleReleaseIsANoOp(t *testing.T) {
	idx := NewIntervalIndex()

	hold, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	hold.Release()
	hold.Release()
	idx.Release(1, day(0), day(3))

	_, err = idx.Reserve(1, day(0), day(3))
	assert.NoError(t, err)
}

func TestIntervalIndex_ConfirmIsIdempotentAndKeepsInterval(t *testing.T) {
	idx := NewIntervalIndex()

	hold, err := idx.Reserve(1, day(0), day(3))
	require.NoError(t, err)

	hold.Confirm()
	hold.Confirm()
	idx.Confirm(1, day(0), day(3))

	_, err = idx.Reserve(1, day(1), day(2))
	assert.ErrorIs(t, err, status.ErrSlipUnavailable)
}

func TestIntervalIndex_ConcurrentReserveExactlyOneWins(t *testing.T) {
	idx := NewIntervalIndex()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := idx.Reserve(7, day(0), day(4))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, status.ErrSlipUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestIntervalIndex_RandomIntervalsNeverDoubleReserve(t *testing.T) {
	idx := NewIntervalIndex()
	rng := rand.New(rand.NewSource(42))

	type iv struct{ start, end time.Time }
	var accepted []iv

	for i := 0; i < 500; i++ {
		s := rng.Intn(60)
		n := 1 + rng.Intn(10)
		start, end := day(s), day(s+n)

		_, err := idx.Reserve(1, start, end)
		if err == nil {
			accepted = append(accepted, iv{start, end})
		} else {
			assert.ErrorIs(t, err, status.ErrSlipUnavailable)
		}
	}

	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			overlaps := a.start.Before(b.end) && b.start.Before(a.end)
			assert.False(t, overlaps, "accepted intervals %v and %v overlap", a, b)
		}
	}
}

func TestIntervalIndex_OccupiedReflectsLoad(t *testing.T) {
	idx := NewIntervalIndex()
	idx.Load(3, day(10), day(14))

	assert.True(t, idx.Occupied(3, day(12), day(13)))
	assert.False(t, idx.Occupied(3, day(14), day(20)))

	_, err := idx.Reserve(3, day(9), day(11))
	assert.ErrorIs(t, err, status.ErrSlipUnavailable)
}
