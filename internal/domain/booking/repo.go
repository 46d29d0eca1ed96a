package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository handles the patient-visit pivot. Attach must be race-safe: two
// concurrent attaches of the same pair may not both succeed, the loser gets
// ErrAlreadyBooked.
type Repository interface {
	Attach(ctx context.Context, rec *Record) error
	ListForVisit(ctx context.Context, visitID uuid.UUID) ([]*PatientBooking, error)
}
