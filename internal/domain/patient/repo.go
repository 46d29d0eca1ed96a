package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// Search matches query as a case-insensitive substring against
	// hospital_id, name or phone.
	Search(ctx context.Context, query string) ([]*Patient, error)
}
