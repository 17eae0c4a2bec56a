package medrecord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service is the guarded mutation surface over cards and diagnoses.
// Mutations for one card serialize through that card's lock so duplicate
// check-ins cannot interleave diagnosis updates; different cards never
// contend.
type Service struct {
	cards     CardRepository
	diagnoses DiagnosisRepository

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewService(cards CardRepository, diagnoses DiagnosisRepository) *Service {
	return &Service{
		cards:     cards,
		diagnoses: diagnoses,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// lock acquires the mutex for the given identity, creating it on first
// use, and returns the unlock func.
func (s *Service) lock(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// LockCard acquires the per-card lock and returns the unlock func. The
// visit processor holds it across its whole read-check-update sequence so
// duplicate check-ins for one patient serialize. The mutation methods below
// do not take the lock themselves; each is a single atomic store write.
func (s *Service) LockCard(cardID uuid.UUID) func() {
	return s.lock(cardID)
}

// EnsureCard returns the patient's card, creating it on first use. The
// get-or-create runs under a per-patient lock so concurrent first bookings
// cannot each create a card.
func (s *Service) EnsureCard(ctx context.Context, patientID uuid.UUID) (*MedicalCard, error) {
	unlock := s.lock(patientID)
	defer unlock()

	card, err := s.cards.GetByPatient(ctx, patientID)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, ErrCardNotFound) {
		return nil, err
	}
	card = &MedicalCard{
		ID:        uuid.New(),
		PatientID: patientID,
		CreatedAt: time.Now(),
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("create medical card: %w", err)
	}
	return card, nil
}

func (s *Service) GetCard(ctx context.Context, patientID uuid.UUID) (*MedicalCard, error) {
	return s.cards.GetByPatient(ctx, patientID)
}

// AddDiagnosis appends a diagnosis to a card. New entries start active.
func (s *Service) AddDiagnosis(ctx context.Context, cardID uuid.UUID, description, treatment string, diagnosedAt time.Time) (*Diagnosis, error) {
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if _, err := s.cards.GetByID(ctx, cardID); err != nil {
		return nil, err
	}

	d := &Diagnosis{
		ID:            uuid.New(),
		CardID:        cardID,
		Description:   description,
		DateDiagnosed: diagnosedAt,
		Treatment:     treatment,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.diagnoses.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create diagnosis: %w", err)
	}
	return d, nil
}

// UpdateTreatment rewrites the treatment text of an existing diagnosis.
// The active flag is untouched.
func (s *Service) UpdateTreatment(ctx context.Context, diagnosisID uuid.UUID, treatment string) (*Diagnosis, error) {
	d, err := s.diagnoses.GetByID(ctx, diagnosisID)
	if err != nil {
		return nil, err
	}

	d.Treatment = treatment
	d.UpdatedAt = time.Now()
	if err := s.diagnoses.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update treatment: %w", err)
	}
	return d, nil
}

// SetActive toggles a diagnosis's active flag. Diagnoses are never hard
// deleted; deactivation is the only retirement path.
func (s *Service) SetActive(ctx context.Context, diagnosisID uuid.UUID, active bool) (*Diagnosis, error) {
	d, err := s.diagnoses.GetByID(ctx, diagnosisID)
	if err != nil {
		return nil, err
	}

	d.Active = active
	d.UpdatedAt = time.Now()
	if err := s.diagnoses.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update diagnosis status: %w", err)
	}
	return d, nil
}

// ListDiagnoses returns the card's diagnoses in insertion order.
func (s *Service) ListDiagnoses(ctx context.Context, cardID uuid.UUID) ([]*Diagnosis, error) {
	if _, err := s.cards.GetByID(ctx, cardID); err != nil {
		return nil, err
	}
	return s.diagnoses.ListByCard(ctx, cardID)
}
