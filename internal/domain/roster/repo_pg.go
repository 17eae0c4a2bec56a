package roster

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Hospital Repository ===========

type hospitalRepoPG struct{ pool *pgxpool.Pool }

func NewHospitalRepoPG(pool *pgxpool.Pool) HospitalRepository { return &hospitalRepoPG{pool: pool} }

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospital (id, name, address) VALUES ($1,$2,$3)`,
		h.ID, h.Name, h.Address)
	return err
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	var h Hospital
	err := r.pool.QueryRow(ctx, `SELECT id, name, address, created_at FROM hospital WHERE id = $1`, id).
		Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &h, err
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, name, address, created_at FROM hospital
		ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		var h Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &h)
	}
	return items, total, rows.Err()
}

// =========== Department Repository ===========

type departmentRepoPG struct{ pool *pgxpool.Pool }

func NewDepartmentRepoPG(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) Create(ctx context.Context, d *Department) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO department (id, hospital_id, name) VALUES ($1,$2,$3)`,
		d.ID, d.HospitalID, d.Name)
	return err
}

func (r *departmentRepoPG) scanOne(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.HospitalID, &d.Name, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, hospital_id, name, created_at FROM department WHERE id = $1`, id))
}

func (r *departmentRepoPG) GetByName(ctx context.Context, name string) (*Department, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, hospital_id, name, created_at FROM department WHERE name = $1`, name))
}

func (r *departmentRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Department, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM department WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT id, hospital_id, name, created_at FROM department
		WHERE hospital_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.HospitalID, &d.Name, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}

func (r *departmentRepoPG) AssignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO department_staff (department_id, worker_id)
		VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		departmentID, workerID)
	return err
}

func (r *departmentRepoPG) UnassignWorker(ctx context.Context, departmentID, workerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM department_staff WHERE department_id = $1 AND worker_id = $2`,
		departmentID, workerID)
	return err
}

func (r *departmentRepoPG) StaffOf(ctx context.Context, departmentID uuid.UUID) ([]*MedicalWorker, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.id, w.name, w.role, w.specialization, w.qualification, w.created_at
		FROM department_staff ds
		JOIN medical_worker w ON w.id = ds.worker_id
		WHERE ds.department_id = $1
		ORDER BY ds.assigned_at`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkers(rows)
}

// =========== Worker Repository ===========

type workerRepoPG struct{ pool *pgxpool.Pool }

func NewWorkerRepoPG(pool *pgxpool.Pool) WorkerRepository { return &workerRepoPG{pool: pool} }

const workerCols = `id, name, role, specialization, qualification, created_at`

func (r *workerRepoPG) Create(ctx context.Context, w *MedicalWorker) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medical_worker (id, name, role, specialization, qualification)
		VALUES ($1,$2,$3,$4,$5)`,
		w.ID, w.Name, w.Role, w.Specialization, w.Qualification)
	return err
}

func (r *workerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalWorker, error) {
	var w MedicalWorker
	err := r.pool.QueryRow(ctx, `SELECT `+workerCols+` FROM medical_worker WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Role, &w.Specialization, &w.Qualification, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &w, err
}

func (r *workerRepoPG) Update(ctx context.Context, w *MedicalWorker) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE medical_worker SET name=$2, role=$3, specialization=$4, qualification=$5
		WHERE id = $1`,
		w.ID, w.Name, w.Role, w.Specialization, w.Qualification)
	return err
}

func (r *workerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Assignment rows go first so no department keeps a dangling reference.
	if _, err := r.pool.Exec(ctx, `DELETE FROM department_staff WHERE worker_id = $1`, id); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM medical_worker WHERE id = $1`, id)
	return err
}

func (r *workerRepoPG) List(ctx context.Context, limit, offset int) ([]*MedicalWorker, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medical_worker`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+workerCols+` FROM medical_worker
		ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectWorkers(rows)
	return items, total, err
}

func collectWorkers(rows pgx.Rows) ([]*MedicalWorker, error) {
	var items []*MedicalWorker
	for rows.Next() {
		var w MedicalWorker
		if err := rows.Scan(&w.ID, &w.Name, &w.Role, &w.Specialization, &w.Qualification, &w.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &w)
	}
	return items, rows.Err()
}

// =========== Routing Repository ===========

type routingRepoPG struct{ pool *pgxpool.Pool }

func NewRoutingRepoPG(pool *pgxpool.Pool) RoutingRepository { return &routingRepoPG{pool: pool} }

func (r *routingRepoPG) Create(ctx context.Context, rule *RoutingRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO routing_rule (id, keyword, department_name, position)
		VALUES ($1,$2,$3,$4)`,
		rule.ID, rule.Keyword, rule.DepartmentName, rule.Position)
	return err
}

func (r *routingRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM routing_rule WHERE id = $1`, id)
	return err
}

func (r *routingRepoPG) List(ctx context.Context) ([]*RoutingRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, keyword, department_name, position FROM routing_rule ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RoutingRule
	for rows.Next() {
		var rule RoutingRule
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.DepartmentName, &rule.Position); err != nil {
			return nil, err
		}
		items = append(items, &rule)
	}
	return items, rows.Err()
}
