package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/domain/booking"
	"github.com/frontdesk/frontdesk/internal/domain/medrecord"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/roster"
)

// Common errors returned by the visit processor.
var (
	ErrNoAppointment    = errors.New("patient has no appointment to arrive for")
	ErrNoDoctorAssigned = errors.New("assigned worker cannot examine patients")
	ErrNoDiagnosis      = errors.New("medical card holds no diagnosis to update")
	ErrNotNurse         = errors.New("worker is not a nurse")
)

// VisitResult summarizes a processed visit.
type VisitResult struct {
	AppointmentID    uuid.UUID      `json:"appointment_id"`
	PatientID        uuid.UUID      `json:"patient_id"`
	WorkerID         uuid.UUID      `json:"worker_id"`
	Analysis         AnalysisResult `json:"analysis"`
	TreatmentUpdated bool           `json:"treatment_updated"`
	DiagnosisID      *uuid.UUID     `json:"diagnosis_id,omitempty"`
	ProcessedAt      time.Time      `json:"processed_at"`
}

// SampleResult records a nurse taking an analysis sample from a patient.
type SampleResult struct {
	PatientID uuid.UUID `json:"patient_id"`
	NurseID   uuid.UUID `json:"nurse_id"`
	Kind      string    `json:"kind"`
	TakenAt   time.Time `json:"taken_at"`
}

// Service handles the "patient arrives" event: it resolves the appointment,
// dispatches on the assigned worker's capability and conditionally updates
// the medical card.
type Service struct {
	bookings *booking.Service
	patients *patient.Service
	roster   *roster.Service
	records  *medrecord.Service
	policy   ExamPolicy
	log      zerolog.Logger
}

func NewService(bookings *booking.Service, patients *patient.Service, ros *roster.Service,
	records *medrecord.Service, policy ExamPolicy, log zerolog.Logger) *Service {
	if policy == nil {
		policy = NewKeywordPolicy()
	}
	return &Service{
		bookings: bookings,
		patients: patients,
		roster:   ros,
		records:  records,
		policy:   policy,
		log:      log.With().Str("component", "visit").Logger(),
	}
}

// Process runs a scheduled visit. The whole read-check-update sequence on
// the medical card runs under the card's lock, so a duplicate check-in for
// the same patient serializes rather than interleaving. A failed process
// leaves the card exactly as it was.
func (s *Service) Process(ctx context.Context, appointmentID uuid.UUID) (*VisitResult, error) {
	appt, err := s.bookings.Get(ctx, appointmentID)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, ErrNoAppointment
	}
	if err != nil {
		return nil, err
	}
	if appt.Status != booking.StatusBooked {
		return nil, ErrNoAppointment
	}

	worker, err := s.roster.GetWorker(ctx, appt.WorkerID)
	if err != nil {
		return nil, fmt.Errorf("resolve assigned worker: %w", err)
	}
	if !worker.CanExamine() {
		return nil, ErrNoDoctorAssigned
	}

	p, err := s.patients.Get(ctx, appt.PatientID)
	if err != nil {
		return nil, err
	}

	unlock := s.records.LockCard(appt.CardID)
	defer unlock()

	prior, err := s.records.ListDiagnoses(ctx, appt.CardID)
	if err != nil {
		return nil, err
	}

	analysis := s.policy.AnalyzeComplaints(p.Complaints, prior)
	needsUpdate, newTreatment := s.policy.Checkup(p, prior, analysis)

	result := &VisitResult{
		AppointmentID: appt.ID,
		PatientID:     p.ID,
		WorkerID:      worker.ID,
		Analysis:      analysis,
		ProcessedAt:   time.Now(),
	}
	if !needsUpdate {
		s.log.Info().Stringer("appointment_id", appt.ID).Msg("visit processed, no treatment change")
		return result, nil
	}

	// A fresh diagnosis is never invented here; it must come through the
	// add-diagnosis path before the checkup can adjust its treatment.
	if len(prior) == 0 {
		return nil, ErrNoDiagnosis
	}

	target := pickDiagnosis(prior)
	updated, err := s.records.UpdateTreatment(ctx, target.ID, newTreatment)
	if err != nil {
		return nil, fmt.Errorf("update treatment: %w", err)
	}

	result.TreatmentUpdated = true
	result.DiagnosisID = &updated.ID
	s.log.Info().
		Stringer("appointment_id", appt.ID).
		Stringer("diagnosis_id", updated.ID).
		Msg("visit processed, treatment updated")
	return result, nil
}

// pickDiagnosis chooses which entry a checkup adjusts: the most recent
// active diagnosis, or the most recent one overall when none is active.
func pickDiagnosis(list []*medrecord.Diagnosis) *medrecord.Diagnosis {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Active {
			return list[i]
		}
	}
	return list[len(list)-1]
}

// Assist pairs a nurse with a doctor for a procedure. Both roles are
// checked; nothing is persisted, the pairing is operational only.
func (s *Service) Assist(ctx context.Context, nurseID, doctorID uuid.UUID) error {
	nurse, err := s.roster.GetWorker(ctx, nurseID)
	if err != nil {
		return err
	}
	if !nurse.CanAssist() {
		return ErrNotNurse
	}
	doctor, err := s.roster.GetWorker(ctx, doctorID)
	if err != nil {
		return err
	}
	if !doctor.CanExamine() {
		return ErrNoDoctorAssigned
	}
	s.log.Info().
		Stringer("nurse_id", nurse.ID).
		Stringer("doctor_id", doctor.ID).
		Msg("nurse assisting doctor")
	return nil
}

// TakeSample records a nurse collecting an analysis sample from a patient.
func (s *Service) TakeSample(ctx context.Context, nurseID, patientID uuid.UUID, kind string) (*SampleResult, error) {
	nurse, err := s.roster.GetWorker(ctx, nurseID)
	if err != nil {
		return nil, err
	}
	if !nurse.CanAssist() {
		return nil, ErrNotNurse
	}
	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		kind = "blood"
	}
	res := &SampleResult{
		PatientID: p.ID,
		NurseID:   nurse.ID,
		Kind:      kind,
		TakenAt:   time.Now(),
	}
	s.log.Info().
		Stringer("nurse_id", nurse.ID).
		Stringer("patient_id", p.ID).
		Str("kind", kind).
		Msg("sample taken")
	return res, nil
}
