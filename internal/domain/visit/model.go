package visit

import (
	"time"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/department"
)

// Status is the visit lifecycle state. A visit always starts OPEN; the update
// operation may set any status, there is no terminal-state protection.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Visit is one scheduled instance of a department on a calendar date, with
// its own slot capacity. SlotNumber is independent of the department's
// max_patients but may not exceed it.
type Visit struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DepartmentID uuid.UUID `db:"department_id" json:"department_id"`
	Date         time.Time `db:"visit_date" json:"date"`
	HospitalName string    `db:"hospital_name" json:"hospital_name"`
	SlotNumber   int       `db:"slot_number" json:"slot_number"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	Department *department.Department `json:"department,omitempty"`
	Patients   []AttachedPatient      `json:"patients,omitempty"`
}

// AttachedPatient is the slim patient projection nested under a listed visit.
// BookingStatus is the pivot row's own status, not the visit's.
type AttachedPatient struct {
	ID            uuid.UUID `json:"id"`
	HospitalID    string    `json:"hospital_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	BookingStatus string    `json:"booking_status"`
}
