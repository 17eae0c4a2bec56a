package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a PostgreSQL-backed appointment repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, worker_id, department_id, card_id,
	start_date, end_date, start_minute, end_minute, status, created_at, cancelled_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.WorkerID, &a.DepartmentID, &a.CardID,
		&a.Interval.StartDate, &a.Interval.EndDate,
		&a.Interval.StartMinute, &a.Interval.EndMinute,
		&a.Status, &a.CreatedAt, &a.CancelledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, patient_id, worker_id, department_id, card_id,
			start_date, end_date, start_minute, end_minute, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.PatientID, a.WorkerID, a.DepartmentID, a.CardID,
		a.Interval.StartDate, a.Interval.EndDate,
		a.Interval.StartMinute, a.Interval.EndMinute,
		a.Status, a.CreatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) SetStatus(ctx context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointment SET status=$2, cancelled_at=$3 WHERE id = $1`,
		id, status, cancelledAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppts(rows)
}

func (r *repoPG) ListBooked(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE status = $1`, StatusBooked).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE status = $1 ORDER BY created_at LIMIT $2 OFFSET $3`, StatusBooked, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectAppts(rows)
	return items, total, err
}

func collectAppts(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
