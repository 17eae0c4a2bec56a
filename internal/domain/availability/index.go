package availability

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Index is the in-memory availability index: per worker, the ordered set of
// open working-hour blocks and reserved slots. It is the single shared
// mutable resource of the booking path, so every check-then-act sequence
// runs under that worker's lock. Locks are per worker; the booking
// coordinator only ever holds one at a time.
type Index struct {
	mu      sync.RWMutex
	workers map[uuid.UUID]*workerSchedule
}

type workerSchedule struct {
	mu      sync.Mutex
	entries []*ScheduleEntry // insertion order, oldest first
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{workers: make(map[uuid.UUID]*workerSchedule)}
}

func (ix *Index) worker(id uuid.UUID) *workerSchedule {
	ix.mu.RLock()
	ws, ok := ix.workers[id]
	ix.mu.RUnlock()
	if ok {
		return ws
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ws, ok = ix.workers[id]; !ok {
		ws = &workerSchedule{}
		ix.workers[id] = ws
	}
	return ws
}

// Put inserts an entry loaded from storage without availability checks.
// Intended for startup hydration only.
func (ix *Index) Put(e *ScheduleEntry) {
	ws := ix.worker(e.WorkerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	cp := *e
	ws.entries = append(ws.entries, &cp)
}

// AddOpen publishes a working-hour block for a worker.
func (ix *Index) AddOpen(workerID uuid.UUID, iv TimeInterval) (*ScheduleEntry, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	entry := &ScheduleEntry{
		ID:        uuid.New(),
		WorkerID:  workerID,
		Kind:      KindOpen,
		Interval:  iv,
		CreatedAt: time.Now(),
	}
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.entries = append(ws.entries, entry)
	cp := *entry
	return &cp, nil
}

// UpdateOpen replaces the time range of an existing open block. Reserved
// slots are untouched; a reservation that the new hours no longer cover
// stays committed.
func (ix *Index) UpdateOpen(workerID, entryID uuid.UUID, iv TimeInterval) (*ScheduleEntry, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, e := range ws.entries {
		if e.ID == entryID && e.Kind == KindOpen {
			e.Interval = iv
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: open block %s", ErrNotFound, entryID)
}

// RemoveOpen deletes a working-hour block.
func (ix *Index) RemoveOpen(workerID, entryID uuid.UUID) error {
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for i, e := range ws.entries {
		if e.ID == entryID && e.Kind == KindOpen {
			ws.entries = append(ws.entries[:i], ws.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: open block %s", ErrNotFound, entryID)
}

// IsAvailable reports whether the interval lies entirely within one open
// block and intersects no reservation. Callers on the booking path must not
// rely on this alone: the answer can go stale the moment the lock is
// dropped. Reserve re-runs the same test atomically.
func (ix *Index) IsAvailable(workerID uuid.UUID, iv TimeInterval) bool {
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.available(iv) == nil
}

// available runs the containment and overlap tests. Caller holds ws.mu.
func (ws *workerSchedule) available(iv TimeInterval) error {
	contained := false
	for _, e := range ws.entries {
		switch e.Kind {
		case KindOpen:
			if e.Interval.Contains(iv) {
				contained = true
			}
		case KindReserved:
			if e.Interval.Overlaps(iv) {
				return ErrConflict
			}
		}
	}
	if !contained {
		return ErrOutsideWorkingHours
	}
	return nil
}

// Reserve commits the interval as a reserved slot for the worker. The
// availability test and the insertion run as one atomic unit under the
// worker's lock, so two racing reservations for the same slot cannot both
// succeed.
func (ix *Index) Reserve(workerID uuid.UUID, iv TimeInterval, appointmentID uuid.UUID) (*ScheduleEntry, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if err := ws.available(iv); err != nil {
		return nil, err
	}

	apptID := appointmentID
	entry := &ScheduleEntry{
		ID:            uuid.New(),
		WorkerID:      workerID,
		Kind:          KindReserved,
		Interval:      iv,
		AppointmentID: &apptID,
		CreatedAt:     time.Now(),
	}
	ws.entries = append(ws.entries, entry)
	cp := *entry
	return &cp, nil
}

// Release removes the reservation matching the interval exactly and returns
// the removed entry. Releasing an interval that is not reserved is
// ErrNotFound.
func (ix *Index) Release(workerID uuid.UUID, iv TimeInterval) (*ScheduleEntry, error) {
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for i, e := range ws.entries {
		if e.Kind == KindReserved && e.Interval.Equal(iv) {
			ws.entries = append(ws.entries[:i], ws.entries[i+1:]...)
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: no reservation at that interval", ErrNotFound)
}

// SchedulesFor returns copies of all entries for the worker, oldest first.
func (ix *Index) SchedulesFor(workerID uuid.UUID) []ScheduleEntry {
	ws := ix.worker(workerID)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]ScheduleEntry, 0, len(ws.entries))
	for _, e := range ws.entries {
		out = append(out, *e)
	}
	return out
}
