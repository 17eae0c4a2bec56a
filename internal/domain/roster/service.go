package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service covers roster management and complaint routing.
type Service struct {
	hospitals   HospitalRepository
	departments DepartmentRepository
	workers     WorkerRepository
	routing     RoutingRepository
}

func NewService(h HospitalRepository, d DepartmentRepository, w WorkerRepository, r RoutingRepository) *Service {
	return &Service{hospitals: h, departments: d, workers: w, routing: r}
}

// -- Hospital --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, limit, offset)
}

// -- Department --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if _, err := s.hospitals.GetByID(ctx, d.HospitalID); err != nil {
		return fmt.Errorf("%w: hospital %s", ErrNotFound, d.HospitalID)
	}
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Department, int, error) {
	return s.departments.ListByHospital(ctx, hospitalID, limit, offset)
}

// AssignWorker adds a worker to a department's staff pool.
func (s *Service) AssignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return fmt.Errorf("%w: department %s", ErrNotFound, departmentID)
	}
	if _, err := s.workers.GetByID(ctx, workerID); err != nil {
		return fmt.Errorf("%w: worker %s", ErrNotFound, workerID)
	}
	return s.departments.AssignWorker(ctx, departmentID, workerID)
}

// UnassignWorker removes a worker from a department. The worker record
// itself survives; only the assignment row goes away.
func (s *Service) UnassignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error {
	return s.departments.UnassignWorker(ctx, departmentID, workerID)
}

// StaffOf lists a department's workers in registration order.
func (s *Service) StaffOf(ctx context.Context, departmentID uuid.UUID) ([]*MedicalWorker, error) {
	return s.departments.StaffOf(ctx, departmentID)
}

// -- Worker --

func (s *Service) CreateWorker(ctx context.Context, w *MedicalWorker) error {
	if w.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !w.Role.Valid() {
		return fmt.Errorf("invalid role: %s", w.Role)
	}
	return s.workers.Create(ctx, w)
}

func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*MedicalWorker, error) {
	return s.workers.GetByID(ctx, id)
}

func (s *Service) UpdateWorker(ctx context.Context, w *MedicalWorker) error {
	if !w.Role.Valid() {
		return fmt.Errorf("invalid role: %s", w.Role)
	}
	return s.workers.Update(ctx, w)
}

func (s *Service) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	return s.workers.Delete(ctx, id)
}

func (s *Service) ListWorkers(ctx context.Context, limit, offset int) ([]*MedicalWorker, int, error) {
	return s.workers.List(ctx, limit, offset)
}

// -- Routing --

func (s *Service) CreateRoutingRule(ctx context.Context, r *RoutingRule) error {
	if r.Keyword == "" {
		return fmt.Errorf("keyword is required")
	}
	if r.DepartmentName == "" {
		return fmt.Errorf("department_name is required")
	}
	r.Keyword = strings.ToLower(r.Keyword)
	return s.routing.Create(ctx, r)
}

func (s *Service) DeleteRoutingRule(ctx context.Context, id uuid.UUID) error {
	return s.routing.Delete(ctx, id)
}

func (s *Service) ListRoutingRules(ctx context.Context) ([]*RoutingRule, error) {
	return s.routing.List(ctx)
}

// Route maps an ordered complaint list to a department. Complaints are
// scanned in the order given; within a complaint, rules apply in table
// order and the first keyword hit wins. No hit is ErrNoDepartment; the
// caller surfaces that, it never books blindly.
func (s *Service) Route(ctx context.Context, complaints []string) (*Department, error) {
	rules, err := s.routing.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load routing table: %w", err)
	}
	for _, complaint := range complaints {
		lowered := strings.ToLower(complaint)
		for _, rule := range rules {
			if !strings.Contains(lowered, rule.Keyword) {
				continue
			}
			dept, err := s.departments.GetByName(ctx, rule.DepartmentName)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q names unknown department %q",
					ErrNoDepartment, rule.Keyword, rule.DepartmentName)
			}
			return dept, nil
		}
	}
	return nil, ErrNoDepartment
}
