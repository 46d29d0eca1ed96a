package department

import (
	"context"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/db"
	"github.com/opd/opd/pkg/weekday"
)

type Service struct {
	repo   Repository
	atomic db.Atomic
}

func NewService(repo Repository, atomic db.Atomic) *Service {
	return &Service{repo: repo, atomic: atomic}
}

func (s *Service) validate(d *Department) error {
	if d.Name == "" {
		return apierrors.NewValidationError("name", "is required")
	}
	if d.MaxPatients <= 0 {
		return apierrors.NewValidationError("max_patients", "must be a positive number")
	}
	if len(d.Days) == 0 {
		return apierrors.NewValidationError("days", "at least one visit day is required")
	}
	for _, day := range d.Days {
		if !weekday.IsValid(day) {
			return apierrors.NewValidationError("days", "unknown weekday: "+day)
		}
	}
	d.Days = weekday.Normalize(d.Days)
	return nil
}

// Create stores the department and its visit-day rows in one transaction.
func (s *Service) Create(ctx context.Context, d *Department) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.atomic(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, d); err != nil {
			return err
		}
		return s.repo.ReplaceDays(ctx, d.ID, d.Days)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces name, capacity and the full visit-day set atomically. Day
// rows shared between the old and new set are kept in place.
func (s *Service) Update(ctx context.Context, d *Department) error {
	if err := s.validate(d); err != nil {
		return err
	}
	return s.atomic(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, d); err != nil {
			return err
		}
		return s.repo.ReplaceDays(ctx, d.ID, d.Days)
	})
}

// Delete refuses to remove a department that still has visits.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	has, err := s.repo.HasVisits(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apierrors.ErrConflict
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, name string, limit, offset int) ([]*Department, int, error) {
	return s.repo.List(ctx, name, limit, offset)
}

// AllowedWeekdayIndices returns the sorted weekday indices (0=Sunday) a
// department accepts visits on. Date pickers enable exactly these days.
func (s *Service) AllowedWeekdayIndices(ctx context.Context, id uuid.UUID) ([]int, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return weekday.AllowedIndices(d.Days), nil
}

// AllVisitDays is the distinct union of visit days across every department,
// in canonical week order.
func (s *Service) AllVisitDays(ctx context.Context) ([]string, error) {
	days, err := s.repo.AllDays(ctx)
	if err != nil {
		return nil, err
	}
	return weekday.Normalize(days), nil
}

// AcceptsVisitsOn reports whether the department allows visits on the given
// weekday index.
func (s *Service) AcceptsVisitsOn(ctx context.Context, id uuid.UUID, weekdayIdx int) (bool, error) {
	indices, err := s.AllowedWeekdayIndices(ctx, id)
	if err != nil {
		return false, err
	}
	for _, idx := range indices {
		if idx == weekdayIdx {
			return true, nil
		}
	}
	return false, nil
}
