package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository handles visit persistence. Read methods hydrate the nested
// department and the attached-patient projection.
type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	List(ctx context.Context, limit, offset int) ([]*Visit, int, error)
	ListOpenFuture(ctx context.Context, asOf time.Time) ([]*Visit, error)
	ListToday(ctx context.Context, day time.Time) ([]*Visit, error)
}
