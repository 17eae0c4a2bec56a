package availability

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns a PostgreSQL-backed schedule entry repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const entryCols = `id, worker_id, kind, start_date, end_date, start_minute, end_minute,
	appointment_id, created_at`

func scanEntry(row pgx.Row) (*ScheduleEntry, error) {
	var e ScheduleEntry
	err := row.Scan(&e.ID, &e.WorkerID, &e.Kind,
		&e.Interval.StartDate, &e.Interval.EndDate,
		&e.Interval.StartMinute, &e.Interval.EndMinute,
		&e.AppointmentID, &e.CreatedAt)
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *ScheduleEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO schedule_entry (id, worker_id, kind, start_date, end_date,
			start_minute, end_minute, appointment_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.WorkerID, e.Kind,
		e.Interval.StartDate, e.Interval.EndDate,
		e.Interval.StartMinute, e.Interval.EndMinute,
		e.AppointmentID, e.CreatedAt)
	return err
}

func (r *repoPG) Update(ctx context.Context, e *ScheduleEntry) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE schedule_entry SET start_date=$2, end_date=$3, start_minute=$4, end_minute=$5
		WHERE id = $1`,
		e.ID, e.Interval.StartDate, e.Interval.EndDate,
		e.Interval.StartMinute, e.Interval.EndMinute)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedule_entry WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*ScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryCols+` FROM schedule_entry
		WHERE worker_id = $1 ORDER BY created_at`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*ScheduleEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryCols+` FROM schedule_entry ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows pgx.Rows) ([]*ScheduleEntry, error) {
	var items []*ScheduleEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
