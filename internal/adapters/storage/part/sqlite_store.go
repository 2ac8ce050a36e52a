package part

import (
	"context"
	"database/sql"
	"time"

	"storyboard/internal/adapters/storage"
	domain "storyboard/internal/domain/part"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

const timeFormat = time.RFC3339

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, s)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

const partColumns = `id, order_index, title, image_path, movement_description, content, created_at, updated_at`

// ListAll returns all parts ordered ascending by order_index.
// PRE: none
// POST: returns parts or empty slice; no pagination
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Part, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+partColumns+` FROM parts ORDER BY order_index ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.Part
	for rows.Next() {
		p, err := scanPartRows(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetByID retrieves a part by ID.
// PRE: id is non-empty
// POST: returns the part, or sql.ErrNoRows if absent
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Part, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+partColumns+` FROM parts WHERE id = ?`, id)
	return scanPart(row)
}

// Create inserts a part with order_index = max existing + 1 (1 when empty).
// The read of the current max and the insert share a transaction so two
// concurrent creates cannot both observe the same max.
// PRE: p carries ID, timestamps, and validated fields
// POST: part is persisted; returned copy carries the assigned order_index
func (s *SQLiteStore) Create(ctx context.Context, p domain.Part) (domain.Part, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Part{}, err
	}
	defer tx.Rollback()

	var maxOrder sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(order_index) FROM parts`).Scan(&maxOrder); err != nil {
		return domain.Part{}, err
	}
	p.OrderIndex = int(maxOrder.Int64) + 1

	_, err = tx.ExecContext(ctx,
		`INSERT INTO parts (`+partColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrderIndex, p.Title, p.ImagePath, p.MovementDescription, p.Content,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return domain.Part{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Part{}, err
	}
	return p, nil
}

// Update replaces title, image_path, movement_description, content and updated_at.
// order_index, created_at and id are never touched by Update.
// PRE: p.ID is non-empty
// POST: row is updated, or sql.ErrNoRows is returned if no row matched
func (s *SQLiteStore) Update(ctx context.Context, p domain.Part) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE parts
		 SET title = ?, image_path = ?, movement_description = ?, content = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title, p.ImagePath, p.MovementDescription, p.Content, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a part by ID. Removing any uploaded file is the caller's job.
// PRE: id is non-empty
// POST: row is deleted if present
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	return err
}

// Reorder applies all order_index updates in one transaction: either every
// listed part is updated or none are.
// PRE: orders is non-empty
// POST: all listed parts carry their new order_index, or no change on error
func (s *SQLiteStore) Reorder(ctx context.Context, orders []domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, o := range orders {
		if _, err := tx.ExecContext(ctx,
			`UPDATE parts SET order_index = ? WHERE id = ?`, o.OrderIndex, o.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanPart(row *sql.Row) (domain.Part, error) {
	var p domain.Part
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.OrderIndex, &p.Title, &p.ImagePath,
		&p.MovementDescription, &p.Content, &createdAt, &updatedAt)
	if err != nil {
		return domain.Part{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func scanPartRows(rows *sql.Rows) (domain.Part, error) {
	var p domain.Part
	var createdAt, updatedAt string
	err := rows.Scan(&p.ID, &p.OrderIndex, &p.Title, &p.ImagePath,
		&p.MovementDescription, &p.Content, &createdAt, &updatedAt)
	if err != nil {
		return domain.Part{}, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}
