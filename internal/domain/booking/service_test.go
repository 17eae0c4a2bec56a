package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/frontdesk/frontdesk/internal/domain/availability"
	"github.com/frontdesk/frontdesk/internal/domain/medrecord"
	"github.com/frontdesk/frontdesk/internal/domain/patient"
	"github.com/frontdesk/frontdesk/internal/domain/roster"
)

// -- Mock repositories --
//
// The coordinator is exercised against the real domain services, each
// backed by a map repository, so the whole booking flow runs in memory.

type mockApptRepo struct {
	mu         sync.Mutex
	order      []uuid.UUID
	byID       map[uuid.UUID]*Appointment
	failCreate bool
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{byID: make(map[uuid.UUID]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return fmt.Errorf("storage down")
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) SetStatus(_ context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.CancelledAt = cancelledAt
	return nil
}

func (m *mockApptRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, id := range m.order {
		if a := m.byID[id]; a.PatientID == patientID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockApptRepo) ListBooked(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, id := range m.order {
		if a := m.byID[id]; a.Status == StatusBooked {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

type mockPatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) UpdateComplaints(_ context.Context, id uuid.UUID, complaints []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return patient.ErrNotFound
	}
	p.Complaints = complaints
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

type mockHospitalRepo struct {
	hospitals map[uuid.UUID]*roster.Hospital
}

func (m *mockHospitalRepo) Create(_ context.Context, h *roster.Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*roster.Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, roster.ErrNotFound
	}
	return h, nil
}

func (m *mockHospitalRepo) List(_ context.Context, limit, offset int) ([]*roster.Hospital, int, error) {
	return nil, 0, nil
}

type mockDeptRepo struct {
	depts   map[uuid.UUID]*roster.Department
	staff   map[uuid.UUID][]uuid.UUID // assignment order
	workers *mockWorkerRepo
}

func (m *mockDeptRepo) Create(_ context.Context, d *roster.Department) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.depts[d.ID] = d
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id uuid.UUID) (*roster.Department, error) {
	d, ok := m.depts[id]
	if !ok {
		return nil, roster.ErrNotFound
	}
	return d, nil
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*roster.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, roster.ErrNotFound
}

func (m *mockDeptRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID, limit, offset int) ([]*roster.Department, int, error) {
	return nil, 0, nil
}

func (m *mockDeptRepo) AssignWorker(_ context.Context, departmentID, workerID uuid.UUID) error {
	m.staff[departmentID] = append(m.staff[departmentID], workerID)
	return nil
}

func (m *mockDeptRepo) UnassignWorker(_ context.Context, departmentID, workerID uuid.UUID) error {
	return nil
}

func (m *mockDeptRepo) StaffOf(_ context.Context, departmentID uuid.UUID) ([]*roster.MedicalWorker, error) {
	var out []*roster.MedicalWorker
	for _, id := range m.staff[departmentID] {
		if w, ok := m.workers.workers[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

type mockWorkerRepo struct {
	workers map[uuid.UUID]*roster.MedicalWorker
}

func (m *mockWorkerRepo) Create(_ context.Context, w *roster.MedicalWorker) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	m.workers[w.ID] = w
	return nil
}

func (m *mockWorkerRepo) GetByID(_ context.Context, id uuid.UUID) (*roster.MedicalWorker, error) {
	w, ok := m.workers[id]
	if !ok {
		return nil, roster.ErrNotFound
	}
	return w, nil
}

func (m *mockWorkerRepo) Update(_ context.Context, w *roster.MedicalWorker) error { return nil }
func (m *mockWorkerRepo) Delete(_ context.Context, id uuid.UUID) error            { return nil }
func (m *mockWorkerRepo) List(_ context.Context, limit, offset int) ([]*roster.MedicalWorker, int, error) {
	return nil, 0, nil
}

type mockRoutingRepo struct {
	rules []*roster.RoutingRule
}

func (m *mockRoutingRepo) Create(_ context.Context, r *roster.RoutingRule) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.rules = append(m.rules, r)
	sort.Slice(m.rules, func(i, j int) bool { return m.rules[i].Position < m.rules[j].Position })
	return nil
}

func (m *mockRoutingRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func (m *mockRoutingRepo) List(_ context.Context) ([]*roster.RoutingRule, error) {
	return m.rules, nil
}

type mockEntryRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*availability.ScheduleEntry
}

func (m *mockEntryRepo) Create(_ context.Context, e *availability.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *mockEntryRepo) Update(_ context.Context, e *availability.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *mockEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *mockEntryRepo) ListByWorker(_ context.Context, workerID uuid.UUID) ([]*availability.ScheduleEntry, error) {
	return nil, nil
}

func (m *mockEntryRepo) ListAll(_ context.Context) ([]*availability.ScheduleEntry, error) {
	return nil, nil
}

type mockCardRepo struct {
	mu      sync.Mutex
	cards   map[uuid.UUID]*medrecord.MedicalCard
	nextNum int64
}

func (m *mockCardRepo) Create(_ context.Context, c *medrecord.MedicalCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextNum++
	c.Number = m.nextNum
	m.cards[c.ID] = c
	return nil
}

func (m *mockCardRepo) GetByID(_ context.Context, id uuid.UUID) (*medrecord.MedicalCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, medrecord.ErrCardNotFound
	}
	return c, nil
}

func (m *mockCardRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*medrecord.MedicalCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.PatientID == patientID {
			return c, nil
		}
	}
	return nil, medrecord.ErrCardNotFound
}

type mockDiagnosisRepo struct{}

func (mockDiagnosisRepo) Create(_ context.Context, d *medrecord.Diagnosis) error { return nil }
func (mockDiagnosisRepo) GetByID(_ context.Context, id uuid.UUID) (*medrecord.Diagnosis, error) {
	return nil, medrecord.ErrDiagnosisNotFound
}
func (mockDiagnosisRepo) Update(_ context.Context, d *medrecord.Diagnosis) error { return nil }
func (mockDiagnosisRepo) ListByCard(_ context.Context, cardID uuid.UUID) ([]*medrecord.Diagnosis, error) {
	return nil, nil
}

// -- Fixture --

type fixture struct {
	svc      *Service
	appts    *mockApptRepo
	avail    *availability.Service
	roster   *roster.Service
	patients *patient.Service
	dept     *roster.Department
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	workers := &mockWorkerRepo{workers: make(map[uuid.UUID]*roster.MedicalWorker)}
	rosterSvc := roster.NewService(
		&mockHospitalRepo{hospitals: make(map[uuid.UUID]*roster.Hospital)},
		&mockDeptRepo{
			depts:   make(map[uuid.UUID]*roster.Department),
			staff:   make(map[uuid.UUID][]uuid.UUID),
			workers: workers,
		},
		workers,
		&mockRoutingRepo{},
	)

	h := &roster.Hospital{Name: "City General"}
	if err := rosterSvc.CreateHospital(context.Background(), h); err != nil {
		t.Fatalf("CreateHospital: %v", err)
	}
	dept := &roster.Department{HospitalID: h.ID, Name: "Cardiology"}
	if err := rosterSvc.CreateDepartment(context.Background(), dept); err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	rule := &roster.RoutingRule{Keyword: "chest", DepartmentName: "Cardiology", Position: 1}
	if err := rosterSvc.CreateRoutingRule(context.Background(), rule); err != nil {
		t.Fatalf("CreateRoutingRule: %v", err)
	}

	patientSvc := patient.NewService(newMockPatientRepo())
	availSvc := availability.NewService(&mockEntryRepo{entries: make(map[uuid.UUID]*availability.ScheduleEntry)}, zerolog.Nop())
	recordSvc := medrecord.NewService(
		&mockCardRepo{cards: make(map[uuid.UUID]*medrecord.MedicalCard)},
		mockDiagnosisRepo{},
	)

	appts := newMockApptRepo()
	svc := NewService(appts, patientSvc, rosterSvc, availSvc, recordSvc, zerolog.Nop())

	return &fixture{
		svc:      svc,
		appts:    appts,
		avail:    availSvc,
		roster:   rosterSvc,
		patients: patientSvc,
		dept:     dept,
	}
}

func (f *fixture) addDoctor(t *testing.T, name string, hours availability.TimeInterval) *roster.MedicalWorker {
	t.Helper()
	w := &roster.MedicalWorker{Name: name, Role: roster.RoleDoctor}
	if err := f.roster.CreateWorker(context.Background(), w); err != nil {
		t.Fatalf("CreateWorker: %v", err)
	}
	if err := f.roster.AssignWorker(context.Background(), f.dept.ID, w.ID); err != nil {
		t.Fatalf("AssignWorker: %v", err)
	}
	if _, err := f.avail.AddWorkingHours(context.Background(), w.ID, hours); err != nil {
		t.Fatalf("AddWorkingHours: %v", err)
	}
	return w
}

func (f *fixture) addPatient(t *testing.T, complaints ...string) *patient.Patient {
	t.Helper()
	p := &patient.Patient{
		Name:        "Ada",
		DateOfBirth: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Complaints:  complaints,
	}
	if err := f.patients.Register(context.Background(), p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return p
}

func januaryHours(t *testing.T) availability.TimeInterval {
	t.Helper()
	iv, err := availability.NewInterval(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		9*60, 17*60,
	)
	if err != nil {
		t.Fatalf("NewInterval: %v", err)
	}
	return iv
}

func tenAM(day int) availability.TimeInterval {
	return availability.At(time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC))
}

// -- Tests --

func TestSchedule_HappyPath(t *testing.T) {
	f := newFixture(t)
	doc := f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	appt, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if appt.WorkerID != doc.ID {
		t.Errorf("assigned worker = %s, want %s", appt.WorkerID, doc.ID)
	}
	if appt.DepartmentID != f.dept.ID {
		t.Errorf("department = %s, want %s", appt.DepartmentID, f.dept.ID)
	}
	if appt.Status != StatusBooked {
		t.Errorf("status = %s, want booked", appt.Status)
	}
	if appt.CardID == uuid.Nil {
		t.Error("no medical card was attached")
	}

	// Complaints are recorded on the patient.
	got, _ := f.patients.Get(context.Background(), p.ID)
	if len(got.Complaints) != 1 || got.Complaints[0] != "chest pain" {
		t.Errorf("patient complaints = %v, want [chest pain]", got.Complaints)
	}

	// The slot is committed.
	if f.avail.IsAvailable(doc.ID, tenAM(10)) {
		t.Error("reserved slot still reported free")
	}

	log, total, err := f.svc.ReceptionLog(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ReceptionLog: %v", err)
	}
	if total != 1 || len(log) != 1 || log[0].ID != appt.ID {
		t.Errorf("reception log = %d entries, want the booked appointment", total)
	}
}

func TestSchedule_UsesStoredComplaints(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t, "chest tightness")

	appt, err := f.svc.Schedule(context.Background(), p.ID, nil, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if appt.DepartmentID != f.dept.ID {
		t.Error("stored complaints were not routed")
	}
}

func TestSchedule_UnknownPatient(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))

	_, err := f.svc.Schedule(context.Background(), uuid.New(), []string{"chest pain"}, tenAM(10))
	if !errors.Is(err, patient.ErrNotFound) {
		t.Fatalf("expected patient.ErrNotFound, got %v", err)
	}
}

func TestSchedule_NoDepartment(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	_, err := f.svc.Schedule(context.Background(), p.ID, []string{"sore ankle"}, tenAM(10))
	if !errors.Is(err, roster.ErrNoDepartment) {
		t.Fatalf("expected roster.ErrNoDepartment, got %v", err)
	}
}

func TestSchedule_NoAvailability(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	// 18:00 is outside every doctor's hours.
	slot := availability.At(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC))
	_, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, slot)
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}
}

func TestSchedule_FallsBackToNextWorker(t *testing.T) {
	f := newFixture(t)
	first := f.addDoctor(t, "Dr. First", januaryHours(t))
	second := f.addDoctor(t, "Dr. Second", januaryHours(t))
	p := f.addPatient(t)
	other := f.addPatient(t)

	a1, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	if a1.WorkerID != first.ID {
		t.Fatalf("first booking went to %s, want first-registered doctor", a1.WorkerID)
	}

	a2, err := f.svc.Schedule(context.Background(), other.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}
	if a2.WorkerID != second.ID {
		t.Errorf("second booking went to %s, want the fallback doctor", a2.WorkerID)
	}
}

func TestSchedule_RollsBackReservationOnCreateFailure(t *testing.T) {
	f := newFixture(t)
	doc := f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	f.appts.failCreate = true
	if _, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10)); err == nil {
		t.Fatal("expected error from appointment storage")
	}

	// The reservation must have been rolled back.
	if !f.avail.IsAvailable(doc.ID, tenAM(10)) {
		t.Error("failed booking left a dangling reservation")
	}
}

func TestSchedule_RespectsCandidateBound(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. First", januaryHours(t))
	f.addDoctor(t, "Dr. Second", januaryHours(t))
	p := f.addPatient(t)
	other := f.addPatient(t)

	f.svc.SetMaxCandidates(1)

	if _, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10)); err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	// The second doctor is free, but beyond the scan bound.
	_, err := f.svc.Schedule(context.Background(), other.ID, []string{"chest pain"}, tenAM(10))
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability under candidate bound, got %v", err)
	}
}

func TestCancel_RoundTrip(t *testing.T) {
	f := newFixture(t)
	doc := f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	appt, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), appt.ID, p.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// Cancel restores the exact pre-booking availability.
	if !f.avail.IsAvailable(doc.ID, tenAM(10)) {
		t.Error("cancelled slot not available again")
	}

	got, err := f.svc.Get(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusCancelled || got.CancelledAt == nil {
		t.Errorf("appointment not retired: status=%s cancelled_at=%v", got.Status, got.CancelledAt)
	}

	// And the slot can be rebooked.
	other := f.addPatient(t)
	if _, err := f.svc.Schedule(context.Background(), other.ID, []string{"chest pain"}, tenAM(10)); err != nil {
		t.Fatalf("rebooking after cancel: %v", err)
	}
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)
	stranger := f.addPatient(t)

	appt, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if err := f.svc.Cancel(context.Background(), uuid.New(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown appointment: expected ErrNotFound, got %v", err)
	}
	if err := f.svc.Cancel(context.Background(), appt.ID, stranger.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("stranger cancel: expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Cancel(context.Background(), appt.ID, p.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), appt.ID, p.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("double cancel: expected ErrAlreadyCancelled, got %v", err)
	}
}

func TestCancel_ConcurrentDoubleCancel(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	appt, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- f.svc.Cancel(context.Background(), appt.ID, p.ID)
		}()
	}
	wg.Wait()
	close(results)

	wins, repeats := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyCancelled):
			repeats++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d concurrent cancels reported success, want exactly 1", wins)
	}
	if repeats != attempts-1 {
		t.Errorf("repeats = %d, want %d", repeats, attempts-1)
	}
}

func TestSchedule_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))

	const attempts = 16
	patients := make([]*patient.Patient, attempts)
	for i := range patients {
		patients[i] = f.addPatient(t)
	}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(p *patient.Patient) {
			defer wg.Done()
			_, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
			results <- err
		}(patients[i])
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrNoAvailability):
			losses++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d bookings succeeded for one slot with one doctor, want exactly 1", wins)
	}
	if losses != attempts-1 {
		t.Errorf("losses = %d, want %d", losses, attempts-1)
	}
}

func TestAppointmentsOf_IncludesCancelled(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Grey", januaryHours(t))
	p := f.addPatient(t)

	a1, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(10))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := f.svc.Cancel(context.Background(), a1.ID, p.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := f.svc.Schedule(context.Background(), p.ID, []string{"chest pain"}, tenAM(11)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	appts, err := f.svc.AppointmentsOf(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("AppointmentsOf: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("len = %d, want 2 (cancelled included)", len(appts))
	}

	log, total, _ := f.svc.ReceptionLog(context.Background(), 20, 0)
	if total != 1 || len(log) != 1 {
		t.Errorf("reception log shows %d, want only the live booking", total)
	}
}
