package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/patient"
	"github.com/opd/opd/internal/domain/visit"
	"github.com/opd/opd/internal/platform/auth"
)

// VisitDirectory and PatientDirectory resolve the two ends of the pivot.
// Satisfied by *visit.Service and *patient.Service.
type VisitDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*visit.Visit, error)
}

type PatientDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Service struct {
	repo     Repository
	visits   VisitDirectory
	patients PatientDirectory
}

func NewService(repo Repository, visits VisitDirectory, patients PatientDirectory) *Service {
	return &Service{repo: repo, visits: visits, patients: patients}
}

// Attach binds the patient to the visit with a pending confirmation status.
// The booking date snapshots the visit's date; created_by comes from the
// authenticated caller. A second attach of the same pair fails with
// ErrAlreadyBooked.
func (s *Service) Attach(ctx context.Context, visitID, patientID uuid.UUID) (*Record, error) {
	v, err := s.visits.Get(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}

	rec := &Record{
		PatientID: patientID,
		VisitID:   visitID,
		Status:    StatusPending,
	}
	date := v.Date
	rec.Date = &date
	if uid := auth.UserIDFromContext(ctx); uid != "" {
		rec.CreatedBy = &uid
	}
	if err := s.repo.Attach(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPatientsForVisit returns every attached patient with its pivot fields.
func (s *Service) ListPatientsForVisit(ctx context.Context, visitID uuid.UUID) ([]*PatientBooking, error) {
	if _, err := s.visits.Get(ctx, visitID); err != nil {
		return nil, err
	}
	return s.repo.ListForVisit(ctx, visitID)
}
