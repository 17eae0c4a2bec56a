package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the reception log. ListByPatient returns appointments in
// creation order; ListBooked skips cancelled ones.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	ListBooked(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
}
