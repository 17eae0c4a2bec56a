package availability

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func januaryHours(t *testing.T) TimeInterval {
	return mustInterval(t, date(2024, 1, 1), date(2024, 1, 31), 9*60, 17*60)
}

func TestIndex_ReserveWithinOpenBlock(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	entry, err := ix.Reserve(worker, slot, uuid.New())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if entry.Kind != KindReserved {
		t.Errorf("kind = %s, want reserved", entry.Kind)
	}
	if ix.IsAvailable(worker, slot) {
		t.Error("slot still reported available after reservation")
	}
}

func TestIndex_ReserveOutsideWorkingHours(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC))
	if _, err := ix.Reserve(worker, slot, uuid.New()); !errors.Is(err, ErrOutsideWorkingHours) {
		t.Fatalf("expected ErrOutsideWorkingHours, got %v", err)
	}
}

func TestIndex_ReserveConflict(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	if _, err := ix.Reserve(worker, slot, uuid.New()); err != nil {
		t.Fatalf("first Reserve: %v", err)
	}
	if _, err := ix.Reserve(worker, slot, uuid.New()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestIndex_ReleaseRestoresAvailability(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	if _, err := ix.Reserve(worker, slot, uuid.New()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := ix.Release(worker, slot); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !ix.IsAvailable(worker, slot) {
		t.Error("slot not available again after release")
	}
}

func TestIndex_ReleaseUnknownInterval(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	if _, err := ix.Release(worker, slot); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIndex_UpdateOpenLeavesReservations(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	open, err := ix.AddOpen(worker, januaryHours(t))
	if err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	if _, err := ix.Reserve(worker, slot, uuid.New()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	// Shrink the hours so the reservation is no longer covered.
	shrunk := mustInterval(t, date(2024, 1, 20), date(2024, 1, 31), 9*60, 17*60)
	if _, err := ix.UpdateOpen(worker, open.ID, shrunk); err != nil {
		t.Fatalf("UpdateOpen: %v", err)
	}

	reserved := 0
	for _, e := range ix.SchedulesFor(worker) {
		if e.Kind == KindReserved {
			reserved++
		}
	}
	if reserved != 1 {
		t.Errorf("reserved entries = %d, want 1", reserved)
	}
}

func TestIndex_UpdateOpenRejectsReservedID(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}
	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	res, err := ix.Reserve(worker, slot, uuid.New())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := ix.UpdateOpen(worker, res.ID, januaryHours(t)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for reserved entry id, got %v", err)
	}
}

func TestIndex_ConcurrentReserveSingleSlot(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	slot := At(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	const attempts = 32

	var wg sync.WaitGroup
	var wins int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ix.Reserve(worker, slot, uuid.New()); err == nil {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d reservations succeeded for one slot, want exactly 1", wins)
	}
}

func TestIndex_ConcurrentReserveDistinctSlots(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	const slots = 16
	var wg sync.WaitGroup
	errs := make(chan error, slots)
	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func(hourOffset int) {
			defer wg.Done()
			slot := At(time.Date(2024, 1, 1+hourOffset, 10, 0, 0, 0, time.UTC))
			if _, err := ix.Reserve(worker, slot, uuid.New()); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("distinct-slot reservation failed: %v", err)
	}

	// No two reserved entries may overlap.
	entries := ix.SchedulesFor(worker)
	for i, a := range entries {
		if a.Kind != KindReserved {
			continue
		}
		for _, b := range entries[i+1:] {
			if b.Kind == KindReserved && a.Interval.Overlaps(b.Interval) {
				t.Fatalf("overlapping reservations: %+v and %+v", a.Interval, b.Interval)
			}
		}
	}
}

func TestIndex_SchedulesForCopies(t *testing.T) {
	ix := NewIndex()
	worker := uuid.New()
	if _, err := ix.AddOpen(worker, januaryHours(t)); err != nil {
		t.Fatalf("AddOpen: %v", err)
	}

	entries := ix.SchedulesFor(worker)
	entries[0].Interval.StartMinute = 0

	fresh := ix.SchedulesFor(worker)
	if fresh[0].Interval.StartMinute != 9*60 {
		t.Error("mutating a returned schedule leaked into the index")
	}
}
