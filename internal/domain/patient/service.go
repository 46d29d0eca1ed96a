package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/platform/apierrors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validGenders = map[string]bool{
	"MALE": true, "FEMALE": true, "OTHER": true,
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Create validates and stores a new patient. Gender is case-insensitive on
// input and normalized to upper case before persistence. Duplicate
// hospital_id or phone surfaces as a conflict, not a validation failure.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.HospitalID == "" {
		return apierrors.NewValidationError("hospital_id", "is required")
	}
	if p.Name == "" {
		return apierrors.NewValidationError("name", "is required")
	}
	if p.District == "" {
		return apierrors.NewValidationError("district", "is required")
	}
	if !isNumeric(p.Phone) {
		return apierrors.NewValidationError("phone", "is required and must be numeric")
	}
	if p.Gender != nil {
		g := strings.ToUpper(*p.Gender)
		if !validGenders[g] {
			return apierrors.NewValidationError("gender", "must be one of MALE, FEMALE, OTHER")
		}
		p.Gender = &g
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Search runs the case-insensitive OR substring match over hospital_id, name
// and phone. An empty result is not an error.
func (s *Service) Search(ctx context.Context, query string) ([]*Patient, error) {
	return s.repo.Search(ctx, query)
}
