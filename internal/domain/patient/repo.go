package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	UpdateComplaints(ctx context.Context, id uuid.UUID, complaints []string) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
