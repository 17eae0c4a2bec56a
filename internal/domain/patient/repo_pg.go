package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a PostgreSQL-backed patient repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, name, phone, date_of_birth, complaints, created_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Complaints == nil {
		p.Complaints = []string{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, name, phone, date_of_birth, complaints)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, p.Phone, p.DateOfBirth, p.Complaints)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Phone, &p.DateOfBirth, &p.Complaints, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) UpdateComplaints(ctx context.Context, id uuid.UUID, complaints []string) error {
	if complaints == nil {
		complaints = []string{}
	}
	_, err := r.pool.Exec(ctx, `UPDATE patient SET complaints = $2 WHERE id = $1`, id, complaints)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient
		ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.DateOfBirth, &p.Complaints, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}
