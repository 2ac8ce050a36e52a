package part

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength    = 200
	MaxMovementLength = 2000
	MaxContentLength  = 50000
)

// Domain errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrEmptyContent    = errors.New("content cannot be empty")
	ErrTitleTooLong    = errors.New("title cannot exceed 200 characters")
	ErrMovementTooLong = errors.New("movement description cannot exceed 2000 characters")
	ErrContentTooLong  = errors.New("content cannot exceed 50000 characters")
	ErrNotFound        = errors.New("part not found")
)

// Part is one ordered storyboard entry: a title, an optional uploaded image,
// an optional movement note, and a body text rendered as markdown.
// INVARIANT: OrderIndex defines display position; the editing client keeps
// the sequence dense (1..N) but the store does not enforce uniqueness.
type Part struct {
	ID                  string    `json:"id"`
	OrderIndex          int       `json:"order_index"`
	Title               string    `json:"title"`
	ImagePath           string    `json:"image_path,omitempty"`
	MovementDescription string    `json:"movement_description,omitempty"`
	Content             string    `json:"content"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Validate checks the part's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (p *Part) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if len(p.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(p.Content) == "" {
		return ErrEmptyContent
	}
	if len(p.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if len(p.MovementDescription) > MaxMovementLength {
		return ErrMovementTooLong
	}
	return nil
}

// HasImage returns true if the part references an uploaded image.
// INVARIANT: Part fields are not mutated
func (p *Part) HasImage() bool {
	return p.ImagePath != ""
}

// Order is one entry of a batch reorder: the part and its new display position.
type Order struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}

// DenseOrders recomputes a dense 1..N order from the slice positions of parts.
// The editing client calls this after a neighbor swap so the submitted batch
// always carries a contiguous sequence.
// PRE: none
// POST: returns one Order per part with OrderIndex = slice position + 1
func DenseOrders(parts []Part) []Order {
	orders := make([]Order, len(parts))
	for i, p := range parts {
		orders[i] = Order{ID: p.ID, OrderIndex: i + 1}
	}
	return orders
}
