package availability

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists schedule entries. The in-memory index is the source
// of truth while the process is running; the repository provides durable
// load/save keyed by entry identity.
type Repository interface {
	Create(ctx context.Context, e *ScheduleEntry) error
	Update(ctx context.Context, e *ScheduleEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*ScheduleEntry, error)
	ListAll(ctx context.Context) ([]*ScheduleEntry, error)
}
