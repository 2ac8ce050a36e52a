package part

import (
	"context"

	domain "storyboard/internal/domain/part"
)

// Store persists Part state.
type Store interface {
	// ListAll returns every part ordered ascending by order_index.
	ListAll(ctx context.Context) ([]domain.Part, error)
	// GetByID returns the part or sql.ErrNoRows.
	GetByID(ctx context.Context, id string) (domain.Part, error)
	// Create inserts the part, assigning the next order_index (max existing + 1).
	Create(ctx context.Context, p domain.Part) (domain.Part, error)
	// Update replaces the mutable fields; returns sql.ErrNoRows if no row matched.
	Update(ctx context.Context, p domain.Part) error
	// Delete removes the row.
	Delete(ctx context.Context, id string) error
	// Reorder applies all order updates as a single transaction.
	Reorder(ctx context.Context, orders []domain.Order) error
}
