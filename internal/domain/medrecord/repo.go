package medrecord

import (
	"context"

	"github.com/google/uuid"
)

type CardRepository interface {
	Create(ctx context.Context, c *MedicalCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalCard, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*MedicalCard, error)
}

// DiagnosisRepository lists in insertion order; there is no delete.
type DiagnosisRepository interface {
	Create(ctx context.Context, d *Diagnosis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error)
	Update(ctx context.Context, d *Diagnosis) error
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*Diagnosis, error)
}
