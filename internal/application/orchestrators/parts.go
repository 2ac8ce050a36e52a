package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"storyboard/internal/domain/part"
)

// PartStoreForOrchestrator defines the store interface needed by part orchestrators.
type PartStoreForOrchestrator interface {
	ListAll(ctx context.Context) ([]part.Part, error)
	GetByID(ctx context.Context, id string) (part.Part, error)
	Create(ctx context.Context, p part.Part) (part.Part, error)
	Update(ctx context.Context, p part.Part) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, orders []part.Order) error
}

// ErrEmptyReorder signals a reorder request listing no parts.
var ErrEmptyReorder = errors.New("reorder requires at least one part")

// --- Create Part ---

// CreatePartInput carries the user-editable fields for a new part.
type CreatePartInput struct {
	Title               string
	ImagePath           string
	MovementDescription string
	Content             string
}

// CreatePartDeps holds dependencies for CreatePart.
type CreatePartDeps struct {
	PartStore  PartStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreatePart creates a new part at the end of the storyboard.
// The store assigns order_index = current max + 1 (1 when the board is empty).
// PRE: Title and Content are non-empty
// POST: part persisted with generated ID and server-assigned timestamps
func ExecuteCreatePart(ctx context.Context, input CreatePartInput, deps CreatePartDeps) (part.Part, error) {
	// Stored timestamps are second-precision UTC; truncating here keeps the
	// create response identical to every later read of the same row.
	now := deps.Now().UTC().Truncate(time.Second)
	p := part.Part{
		ID:                  deps.GenerateID(),
		Title:               input.Title,
		ImagePath:           input.ImagePath,
		MovementDescription: input.MovementDescription,
		Content:             input.Content,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := p.Validate(); err != nil {
		return part.Part{}, err
	}

	created, err := deps.PartStore.Create(ctx, p)
	if err != nil {
		return part.Part{}, err
	}

	slog.Info("part_event", "event", "part_created", "part_id", created.ID, "order_index", created.OrderIndex)
	return created, nil
}

// --- Update Part ---

// UpdatePartInput carries the replacement fields for an existing part.
type UpdatePartInput struct {
	PartID              string
	Title               string
	ImagePath           string
	MovementDescription string
	Content             string
}

// UpdatePartDeps holds dependencies for UpdatePart.
type UpdatePartDeps struct {
	PartStore PartStoreForOrchestrator
	Now       func() time.Time
}

// ExecuteUpdatePart replaces a part's editable fields in place.
// order_index, id and created_at are never touched by update.
// PRE: PartID names an existing part; Title and Content are non-empty
// POST: part updated with refreshed updated_at, or part.ErrNotFound
func ExecuteUpdatePart(ctx context.Context, input UpdatePartInput, deps UpdatePartDeps) (part.Part, error) {
	existing, err := deps.PartStore.GetByID(ctx, input.PartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return part.Part{}, part.ErrNotFound
		}
		return part.Part{}, err
	}

	existing.Title = input.Title
	existing.ImagePath = input.ImagePath
	existing.MovementDescription = input.MovementDescription
	existing.Content = input.Content
	existing.UpdatedAt = deps.Now().UTC().Truncate(time.Second)

	if err := existing.Validate(); err != nil {
		return part.Part{}, err
	}

	if err := deps.PartStore.Update(ctx, existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return part.Part{}, part.ErrNotFound
		}
		return part.Part{}, err
	}

	slog.Info("part_event", "event", "part_updated", "part_id", existing.ID)
	return existing, nil
}

// --- Delete Part ---

// DeletePartDeps holds dependencies for DeletePart.
type DeletePartDeps struct {
	PartStore PartStoreForOrchestrator
	// RemoveImage deletes an uploaded file by its public path. Failures are
	// logged and swallowed: the row delete proceeds, accepting an orphaned
	// file over a part that cannot be removed.
	RemoveImage func(publicPath string) error
}

// ExecuteDeletePart removes a part and, best-effort, its uploaded image.
// PRE: id names an existing part
// POST: row deleted; image file removed when possible
func ExecuteDeletePart(ctx context.Context, id string, deps DeletePartDeps) error {
	existing, err := deps.PartStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return part.ErrNotFound
		}
		return err
	}

	if existing.HasImage() && deps.RemoveImage != nil {
		if err := deps.RemoveImage(existing.ImagePath); err != nil {
			slog.Warn("part_event", "event", "image_remove_failed", "part_id", id, "path", existing.ImagePath, "error", err.Error())
		}
	}

	if err := deps.PartStore.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("part_event", "event", "part_deleted", "part_id", id)
	return nil
}

// --- Reorder Parts ---

// ReorderPartsInput carries the full new ordering.
type ReorderPartsInput struct {
	Orders []part.Order
}

// ReorderPartsDeps holds dependencies for ReorderParts.
type ReorderPartsDeps struct {
	PartStore PartStoreForOrchestrator
}

// ExecuteReorderParts applies a batch of order_index updates atomically and
// returns the resulting canonical list.
// PRE: Orders is non-empty with non-empty ids
// POST: every listed part carries its new order_index, or nothing changed
func ExecuteReorderParts(ctx context.Context, input ReorderPartsInput, deps ReorderPartsDeps) ([]part.Part, error) {
	if len(input.Orders) == 0 {
		return nil, ErrEmptyReorder
	}
	for _, o := range input.Orders {
		if o.ID == "" {
			return nil, ErrEmptyReorder
		}
	}

	if err := deps.PartStore.Reorder(ctx, input.Orders); err != nil {
		return nil, err
	}

	slog.Info("part_event", "event", "parts_reordered", "count", len(input.Orders))
	return deps.PartStore.ListAll(ctx)
}
