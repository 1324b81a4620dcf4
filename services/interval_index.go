package services

import (
	"sort"
	"sync"
	"time"

	"marina-backend/status"
)

// IntervalIndex keeps, per slip, the set of occupied half-open date ranges
// for pending and confirmed bookings. Reserve/Confirm/Release on the same
// slip serialize against each other through a per-slip mutex; different
// slips never contend.
type IntervalIndex struct {
	mu    sync.Mutex // guards the slips map only
	slips map[uint]*slipIntervals
}

type slipIntervals struct {
	mu    sync.Mutex
	spans []span // sorted by start, pairwise non-overlapping
}

type span struct {
	start       time.Time
	end         time.Time
	provisional bool
}

// Hold is an opaque handle on a provisional reservation. Confirm pins it,
// Release drops it. Both are safe to call more than once.
type Hold struct {
	idx    *IntervalIndex
	slipID uint
	start  time.Time
	end    time.Time
}

func NewIntervalIndex() *IntervalIndex {
	return &IntervalIndex{slips: make(map[uint]*slipIntervals)}
}

func (idx *IntervalIndex) forSlip(slipID uint) *slipIntervals {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	si, ok := idx.slips[slipID]
	if !ok {
		si = &slipIntervals{}
		idx.slips[slipID] = si
	}
	return si
}

// Reserve provisionally occupies [start, end) for the slip. It fails with
// status.ErrInvalidRange when start >= end and status.ErrSlipUnavailable
// when any existing pending-or-confirmed interval intersects the range.
func (idx *IntervalIndex) Reserve(slipID uint, start, end time.Time) (*Hold, error) {
	if !start.Before(end) {
		return nil, status.ErrInvalidRange
	}

	si := idx.forSlip(slipID)
	si.mu.Lock()
	defer si.mu.Unlock()

	// First span starting at or after the candidate.
	i := sort.Search(len(si.spans), func(n int) bool {
		return !si.spans[n].start.Before(start)
	})
	// Two half-open intervals overlap iff start1 < end2 && start2 < end1.
	if i < len(si.spans) && si.spans[i].start.Before(end) {
		return nil, status.ErrSlipUnavailable
	}
	if i > 0 && si.spans[i-1].end.After(start) {
		return nil, status.ErrSlipUnavailable
	}

	si.spans = append(si.spans, span{})
	copy(si.spans[i+1:], si.spans[i:])
	si.spans[i] = span{start: start, end: end, provisional: true}

	return &Hold{idx: idx, slipID: slipID, start: start, end: end}, nil
}

// Confirm makes the occupation of [start, end) permanent. Confirming a span
// that is already permanent, or one that no longer exists, is a no-op.
func (idx *IntervalIndex) Confirm(slipID uint, start, end time.Time) {
	si := idx.forSlip(slipID)
	si.mu.Lock()
	defer si.mu.Unlock()

	if i, ok := si.find(start, end); ok {
		si.spans[i].provisional = false
	}
}

// Release removes [start, end) from the occupied set. Releasing an interval
// that is not present is a no-op, so double release never errors.
func (idx *IntervalIndex) Release(slipID uint, start, end time.Time) {
	si := idx.forSlip(slipID)
	si.mu.Lock()
	defer si.mu.Unlock()

	if i, ok := si.find(start, end); ok {
		si.spans = append(si.spans[:i], si.spans[i+1:]...)
	}
}

// Load rebuilds the occupied set from persisted bookings at startup.
// Intervals are inserted as permanent occupations.
func (idx *IntervalIndex) Load(slipID uint, start, end time.Time) {
	si := idx.forSlip(slipID)
	si.mu.Lock()
	defer si.mu.Unlock()

	i := sort.Search(len(si.spans), func(n int) bool {
		return !si.spans[n].start.Before(start)
	})
	si.spans = append(si.spans, span{})
	copy(si.spans[i+1:], si.spans[i:])
	si.spans[i] = span{start: start, end: end}
}

// Occupied reports whether [start, end) intersects any occupied interval.
func (idx *IntervalIndex) Occupied(slipID uint, start, end time.Time) bool {
	si := idx.forSlip(slipID)
	si.mu.Lock()
	defer si.mu.Unlock()

	i := sort.Search(len(si.spans), func(n int) bool {
		return !si.spans[n].start.Before(start)
	})
	if i < len(si.spans) && si.spans[i].start.Before(end) {
		return true
	}
	return i > 0 && si.spans[i-1].end.After(start)
}

func (si *slipIntervals) find(start, end time.Time) (int, bool) {
	i := sort.Search(len(si.spans), func(n int) bool {
		return !si.spans[n].start.Before(start)
	})
	if i < len(si.spans) && si.spans[i].start.Equal(start) && si.spans[i].end.Equal(end) {
		return i, true
	}
	return 0, false
}

// Confirm pins the held interval permanently.
func (h *Hold) Confirm() {
	h.idx.Confirm(h.slipID, h.start, h.end)
}

// Release drops the held interval. Safe to call after Confirm has been
// ruled out, e.g. when booking creation fails downstream of the reserve.
func (h *Hold) Release() {
	h.idx.Release(h.slipID, h.start, h.end)
}
