package department

import (
	"time"

	"github.com/google/uuid"
)

// Department is an organizational unit offering visits on specific weekdays
// with a patient-capacity limit. Days always holds the canonical-order,
// deduplicated label set loaded from the visit-day rows.
type Department struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	MaxPatients int       `db:"max_patients" json:"max_patients"`
	Days        []string  `json:"days"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// VisitDay maps to the department_visit_days table: one row per allowed
// weekday of a department.
type VisitDay struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DepartmentID uuid.UUID `db:"department_id" json:"department_id"`
	Day          string    `db:"day" json:"day"`
}
