package medrecord

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by the medical record store.
var (
	ErrCardNotFound      = errors.New("medical card not found")
	ErrDiagnosisNotFound = errors.New("diagnosis not found")
)

// MedicalCard maps to the medical_card table. Exactly one card exists per
// patient, created lazily on the first booking.
type MedicalCard struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Number    int64     `db:"number" json:"number"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Diagnosis maps to the diagnosis table. Entries are append-only by policy:
// treatment text and the active flag mutate in place, rows are never
// deleted.
type Diagnosis struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CardID        uuid.UUID `db:"card_id" json:"card_id"`
	Description   string    `db:"description" json:"description"`
	DateDiagnosed time.Time `db:"date_diagnosed" json:"date_diagnosed"`
	Treatment     string    `db:"treatment" json:"treatment"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
