package visit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/department"
	"github.com/opd/opd/internal/platform/apierrors"
)

// DepartmentDirectory resolves a department and its weekday policy at visit
// scheduling time. Satisfied by *department.Service.
type DepartmentDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*department.Department, error)
	AcceptsVisitsOn(ctx context.Context, id uuid.UUID, weekdayIdx int) (bool, error)
}

type Service struct {
	repo            Repository
	depts           DepartmentDirectory
	maxScheduleDays int
	now             func() time.Time
}

func NewService(repo Repository, depts DepartmentDirectory, maxScheduleDays int) *Service {
	return &Service{repo: repo, depts: depts, maxScheduleDays: maxScheduleDays, now: time.Now}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// validate checks the visit's fields against its department: the slot count
// may not exceed the department's capacity, and when checkSchedule is set the
// date must fall on an allowed weekday, must not be in the past and must stay
// inside the scheduling window.
func (s *Service) validate(ctx context.Context, v *Visit, checkSchedule bool) error {
	if v.HospitalName == "" {
		return apierrors.NewValidationError("hospital_name", "is required")
	}
	if v.SlotNumber <= 0 {
		return apierrors.NewValidationError("slot_number", "must be a positive number")
	}
	if v.Date.IsZero() {
		return apierrors.NewValidationError("date", "is required")
	}

	d, err := s.depts.Get(ctx, v.DepartmentID)
	if err != nil {
		return err
	}
	if v.SlotNumber > d.MaxPatients {
		return apierrors.NewValidationError("slot_number", "exceeds department capacity")
	}

	v.Date = dateOnly(v.Date)
	if !checkSchedule {
		return nil
	}

	today := dateOnly(s.now())
	if v.Date.Before(today) {
		return apierrors.NewValidationError("date", "must not be in the past")
	}
	if v.Date.After(today.AddDate(0, 0, s.maxScheduleDays)) {
		return apierrors.NewValidationError("date", "is beyond the scheduling window")
	}

	ok, err := s.depts.AcceptsVisitsOn(ctx, v.DepartmentID, int(v.Date.Weekday()))
	if err != nil {
		return err
	}
	if !ok {
		return apierrors.NewValidationError("date", "department does not accept visits on that weekday")
	}
	return nil
}

// Create stores a new visit. Status is always OPEN on creation, whatever the
// caller supplied.
func (s *Service) Create(ctx context.Context, v *Visit) error {
	if err := s.validate(ctx, v, true); err != nil {
		return err
	}
	v.Status = StatusOpen
	return s.repo.Create(ctx, v)
}

// Update is a full-field replace including status. Any status may be set to
// any other; there is no transition guard. The scheduling rules are only
// re-checked when the date or department actually changes, so a past visit
// can still be closed or completed in place.
func (s *Service) Update(ctx context.Context, v *Visit) error {
	if !v.Status.Valid() {
		return apierrors.NewValidationError("status", "must be one of OPEN, CLOSED, CANCELLED, COMPLETED")
	}
	existing, err := s.repo.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	rescheduled := !dateOnly(v.Date).Equal(existing.Date) || v.DepartmentID != existing.DepartmentID
	if err := s.validate(ctx, v, rescheduled); err != nil {
		return err
	}
	return s.repo.Update(ctx, v)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Visit, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListOpenFuture returns OPEN visits dated today or later, most recently
// created first.
func (s *Service) ListOpenFuture(ctx context.Context) ([]*Visit, error) {
	return s.repo.ListOpenFuture(ctx, dateOnly(s.now()))
}

// ListToday returns every visit dated today regardless of status.
func (s *Service) ListToday(ctx context.Context) ([]*Visit, error) {
	return s.repo.ListToday(ctx, dateOnly(s.now()))
}
