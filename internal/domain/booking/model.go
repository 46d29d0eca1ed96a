package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/patient"
	"github.com/opd/opd/internal/platform/apierrors"
)

// ErrAlreadyBooked marks a second attach attempt for the same
// (patient, visit) pair. Callers surface it as a non-fatal notice.
var ErrAlreadyBooked = fmt.Errorf("patient already added to this visit: %w", apierrors.ErrConflict)

// Status is the per-booking confirmation state, independent of the parent
// visit's own status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusConfirm  Status = "confirm"
	StatusCancel   Status = "cancel"
	StatusAttended Status = "attended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirm, StatusCancel, StatusAttended:
		return true
	}
	return false
}

// Record is the patient-visit pivot row. At most one exists per
// (patient, visit) pair, enforced by a unique index.
type Record struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	VisitID             uuid.UUID  `db:"visit_id" json:"visit_id"`
	Date                *time.Time `db:"booking_date" json:"date,omitempty"`
	Description         *string    `db:"description" json:"description,omitempty"`
	AdviceTranscription *string    `db:"advice_transcription" json:"advice_transcription,omitempty"`
	Status              Status     `db:"status" json:"status"`
	CreatedBy           *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// PatientBooking is the joined shape the dashboard and confirmation screens
// consume: demographic fields alongside the pivot fields.
type PatientBooking struct {
	Patient patient.Patient `json:"patient"`
	Booking Record          `json:"booking"`
}
