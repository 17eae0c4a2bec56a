package roster

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by roster lookups and routing.
var (
	ErrNotFound     = errors.New("roster record not found")
	ErrNoDepartment = errors.New("no department treats the given complaints")
)

// Role tags a medical worker's capability. Doctors examine; nurses assist
// and take samples. Dispatch is on the tag, not on a type hierarchy.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleNurse  Role = "nurse"
)

// Valid reports whether the role is one of the known tags.
func (r Role) Valid() bool { return r == RoleDoctor || r == RoleNurse }

// Hospital maps to the hospital table.
type Hospital struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Department maps to the department table. Staff membership lives in a
// separate assignment relation keyed by identifiers, so removing a worker
// cannot leave a dangling embedded reference.
type Department struct {
	ID         uuid.UUID `db:"id" json:"id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// MedicalWorker maps to the medical_worker table. Specialization is set for
// doctors, qualification for nurses.
type MedicalWorker struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Role           Role      `db:"role" json:"role"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Qualification  *string   `db:"qualification" json:"qualification,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CanExamine reports whether the worker may run a patient examination.
func (w *MedicalWorker) CanExamine() bool { return w.Role == RoleDoctor }

// CanAssist reports whether the worker may assist and take samples.
func (w *MedicalWorker) CanAssist() bool { return w.Role == RoleNurse }

// RoutingRule maps one complaint keyword to a department name. Rules are
// ordered; the first keyword found in a complaint wins.
type RoutingRule struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Keyword        string    `db:"keyword" json:"keyword"`
	DepartmentName string    `db:"department_name" json:"department_name"`
	Position       int       `db:"position" json:"position"`
}
