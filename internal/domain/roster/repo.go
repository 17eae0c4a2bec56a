package roster

import (
	"context"

	"github.com/google/uuid"
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
}

// DepartmentRepository also owns the department↔worker assignment relation.
// StaffOf returns workers in assignment (registration) order, the stable
// order the booking coordinator scans.
type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	GetByName(ctx context.Context, name string) (*Department, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Department, int, error)
	AssignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error
	UnassignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error
	StaffOf(ctx context.Context, departmentID uuid.UUID) ([]*MedicalWorker, error)
}

type WorkerRepository interface {
	Create(ctx context.Context, w *MedicalWorker) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalWorker, error)
	Update(ctx context.Context, w *MedicalWorker) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*MedicalWorker, int, error)
}

// RoutingRepository stores the complaint→department keyword table, ordered
// by rule position.
type RoutingRepository interface {
	Create(ctx context.Context, r *RoutingRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*RoutingRule, error)
}
