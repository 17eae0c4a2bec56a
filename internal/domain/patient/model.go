package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient matches the given identity.
var ErrNotFound = errors.New("patient not found")

// Patient maps to the patient table. Complaints hold the current complaint
// list, replaced on each booking. Appointments and the medical card are
// reached through their own repositories keyed by patient ID rather than
// embedded back-pointers.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Phone       string    `db:"phone" json:"phone"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	Complaints  []string  `db:"complaints" json:"complaints"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
