package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/frontdesk/frontdesk/internal/domain/availability"
)

// Common errors returned by the booking coordinator.
var (
	ErrNotFound         = errors.New("appointment not found")
	ErrNoAvailability   = errors.New("no staff member is available at the requested time")
	ErrNotOwner         = errors.New("appointment belongs to a different patient")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// Status of an appointment. Cancelled appointments stay in storage so a
// repeated cancel can be told apart from a cancel of something that never
// existed; the reception log only shows booked ones.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

// Appointment maps to the appointment table. Immutable once created except
// for cancellation. References are by identifier only.
type Appointment struct {
	ID           uuid.UUID                 `db:"id" json:"id"`
	PatientID    uuid.UUID                 `db:"patient_id" json:"patient_id"`
	WorkerID     uuid.UUID                 `db:"worker_id" json:"worker_id"`
	DepartmentID uuid.UUID                 `db:"department_id" json:"department_id"`
	CardID       uuid.UUID                 `db:"card_id" json:"card_id"`
	Interval     availability.TimeInterval `json:"interval"`
	Status       Status                    `db:"status" json:"status"`
	CreatedAt    time.Time                 `db:"created_at" json:"created_at"`
	CancelledAt  *time.Time                `db:"cancelled_at" json:"cancelled_at,omitempty"`
}
