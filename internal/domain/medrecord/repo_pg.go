package medrecord

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Card Repository ===========

type cardRepoPG struct{ pool *pgxpool.Pool }

func NewCardRepoPG(pool *pgxpool.Pool) CardRepository { return &cardRepoPG{pool: pool} }

func (r *cardRepoPG) Create(ctx context.Context, c *MedicalCard) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	// Card numbers come from a sequence so they stay human-readable.
	return r.pool.QueryRow(ctx, `
		INSERT INTO medical_card (id, patient_id)
		VALUES ($1,$2) RETURNING number`,
		c.ID, c.PatientID).Scan(&c.Number)
}

func (r *cardRepoPG) scanOne(row pgx.Row) (*MedicalCard, error) {
	var c MedicalCard
	err := row.Scan(&c.ID, &c.Number, &c.PatientID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	return &c, err
}

func (r *cardRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalCard, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, number, patient_id, created_at FROM medical_card WHERE id = $1`, id))
}

func (r *cardRepoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*MedicalCard, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, number, patient_id, created_at FROM medical_card WHERE patient_id = $1`, patientID))
}

// =========== Diagnosis Repository ===========

type diagnosisRepoPG struct{ pool *pgxpool.Pool }

func NewDiagnosisRepoPG(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepoPG{pool: pool}
}

const diagCols = `id, card_id, description, date_diagnosed, treatment, active, created_at, updated_at`

func (r *diagnosisRepoPG) Create(ctx context.Context, d *Diagnosis) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO diagnosis (id, card_id, description, date_diagnosed, treatment, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.CardID, d.Description, d.DateDiagnosed, d.Treatment, d.Active)
	return err
}

func (r *diagnosisRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	var d Diagnosis
	err := r.pool.QueryRow(ctx, `SELECT `+diagCols+` FROM diagnosis WHERE id = $1`, id).
		Scan(&d.ID, &d.CardID, &d.Description, &d.DateDiagnosed, &d.Treatment,
			&d.Active, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDiagnosisNotFound
	}
	return &d, err
}

func (r *diagnosisRepoPG) Update(ctx context.Context, d *Diagnosis) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE diagnosis SET treatment=$2, active=$3, updated_at=NOW() WHERE id = $1`,
		d.ID, d.Treatment, d.Active)
	return err
}

func (r *diagnosisRepoPG) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*Diagnosis, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+diagCols+` FROM diagnosis
		WHERE card_id = $1 ORDER BY created_at`, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Diagnosis
	for rows.Next() {
		var d Diagnosis
		if err := rows.Scan(&d.ID, &d.CardID, &d.Description, &d.DateDiagnosed,
			&d.Treatment, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}
