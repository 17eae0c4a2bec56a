package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service is the availability engine surface: working-hour management plus
// the atomic reserve/release pair the booking coordinator drives. Mutations
// go through the index first and are then written through to the
// repository; a failed write rolls the index back so no reservation
// dangles.
type Service struct {
	idx     *Index
	entries Repository
	log     zerolog.Logger
}

func NewService(entries Repository, log zerolog.Logger) *Service {
	return &Service{
		idx:     NewIndex(),
		entries: entries,
		log:     log.With().Str("component", "availability").Logger(),
	}
}

// Load hydrates the index from storage. Called once at startup before the
// service is shared.
func (s *Service) Load(ctx context.Context) error {
	all, err := s.entries.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load schedule entries: %w", err)
	}
	for _, e := range all {
		s.idx.Put(e)
	}
	s.log.Info().Int("entries", len(all)).Msg("availability index loaded")
	return nil
}

// AddWorkingHours publishes an open block for a worker.
func (s *Service) AddWorkingHours(ctx context.Context, workerID uuid.UUID, iv TimeInterval) (*ScheduleEntry, error) {
	entry, err := s.idx.AddOpen(workerID, iv)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		_ = s.idx.RemoveOpen(workerID, entry.ID)
		return nil, fmt.Errorf("persist working hours: %w", err)
	}
	return entry, nil
}

// UpdateWorkingHours changes the time range of an existing open block.
// Reserved slots survive the change unmodified.
func (s *Service) UpdateWorkingHours(ctx context.Context, workerID, entryID uuid.UUID, iv TimeInterval) (*ScheduleEntry, error) {
	entry, err := s.idx.UpdateOpen(workerID, entryID, iv)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("persist working hours update: %w", err)
	}
	return entry, nil
}

// RemoveWorkingHours deletes an open block.
func (s *Service) RemoveWorkingHours(ctx context.Context, workerID, entryID uuid.UUID) error {
	if err := s.idx.RemoveOpen(workerID, entryID); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete working hours: %w", err)
	}
	return nil
}

// IsAvailable answers the free/busy query for a worker and interval.
func (s *Service) IsAvailable(workerID uuid.UUID, iv TimeInterval) bool {
	return s.idx.IsAvailable(workerID, iv)
}

// Reserve atomically checks and commits the interval for the worker. The
// index insert and the durable write succeed or fail together.
func (s *Service) Reserve(ctx context.Context, workerID uuid.UUID, iv TimeInterval, appointmentID uuid.UUID) (*ScheduleEntry, error) {
	entry, err := s.idx.Reserve(workerID, iv, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		if _, rbErr := s.idx.Release(workerID, iv); rbErr != nil {
			s.log.Error().Err(rbErr).Stringer("worker_id", workerID).
				Msg("rollback of failed reservation did not find the slot")
		}
		return nil, fmt.Errorf("persist reservation: %w", err)
	}
	return entry, nil
}

// Release frees a reserved slot. Absent reservations are ErrNotFound.
func (s *Service) Release(ctx context.Context, workerID uuid.UUID, iv TimeInterval) error {
	entry, err := s.idx.Release(workerID, iv)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		s.idx.Put(entry)
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// SchedulesFor lists all entries for the worker, oldest first.
func (s *Service) SchedulesFor(workerID uuid.UUID) []ScheduleEntry {
	return s.idx.SchedulesFor(workerID)
}
