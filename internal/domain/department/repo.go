package department

import (
	"context"

	"github.com/google/uuid"
)

// Repository handles department persistence. Create and ReplaceDays run
// inside the caller's transaction when one is present on the context.
type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, name string, limit, offset int) ([]*Department, int, error)
	Days(ctx context.Context, id uuid.UUID) ([]string, error)
	ReplaceDays(ctx context.Context, id uuid.UUID, days []string) error
	AllDays(ctx context.Context) ([]string, error)
	HasVisits(ctx context.Context, id uuid.UUID) (bool, error)
}
