package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lewtec/segtrack/internal/domain"
)

// StackRepository implements domain.StackRepository on SQLite
type StackRepository struct {
	db DBTX
}

// NewStackRepository creates a new StackRepository
func NewStackRepository(db *sql.DB) *StackRepository {
	return &StackRepository{db: db}
}

// NewStackRepositoryWithTx creates a new StackRepository with a transaction
func NewStackRepositoryWithTx(tx *sql.Tx) *StackRepository {
	return &StackRepository{db: tx}
}

// CreateStack creates a new, empty stack
func (r *StackRepository) CreateStack(ctx context.Context, name string) (*domain.Stack, error) {
	stack := &domain.Stack{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO stacks (id, name, created_at) VALUES (?, ?, ?)",
		stack.ID, stack.Name, stack.CreatedAt)
	if err != nil {
		return nil, err
	}
	return stack, nil
}

// GetStack retrieves a stack by ID
func (r *StackRepository) GetStack(ctx context.Context, id string) (*domain.Stack, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM stacks WHERE id = ?", id)
	return scanStack(row)
}

// GetStackByName retrieves a stack by its name
func (r *StackRepository) GetStackByName(ctx context.Context, name string) (*domain.Stack, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM stacks WHERE name = ?", name)
	return scanStack(row)
}

// ListStacks retrieves all stacks
func (r *StackRepository) ListStacks(ctx context.Context) ([]*domain.Stack, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM stacks ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Stack
	for rows.Next() {
		stack, err := scanStack(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stack)
	}
	return result, rows.Err()
}

// DeleteStack removes a stack with its frames and action logs
func (r *StackRepository) DeleteStack(ctx context.Context, id string) error {
	for _, query := range []string{
		"DELETE FROM action_logs WHERE stack_id = ?",
		"DELETE FROM frames WHERE stack_id = ?",
		"DELETE FROM stacks WHERE id = ?",
	} {
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return err
		}
	}
	return nil
}

// AddFrame appends a frame to the end of a stack
func (r *StackRepository) AddFrame(ctx context.Context, stackID, path, sha256 string, width, height int) (*domain.Frame, error) {
	count, err := r.CountFrames(ctx, stackID)
	if err != nil {
		return nil, err
	}
	frame := &domain.Frame{
		StackID:    stackID,
		Index:      count,
		Path:       path,
		SHA256:     sha256,
		Width:      width,
		Height:     height,
		IngestedAt: time.Now().UTC(),
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO frames (stack_id, frame_index, path, sha256, width, height, ingested_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		frame.StackID, frame.Index, frame.Path, frame.SHA256, frame.Width, frame.Height, frame.IngestedAt)
	if err != nil {
		return nil, err
	}
	frame.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// ListFrames retrieves the frames of a stack in order
func (r *StackRepository) ListFrames(ctx context.Context, stackID string) ([]*domain.Frame, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, stack_id, frame_index, path, sha256, width, height, ingested_at FROM frames WHERE stack_id = ? ORDER BY frame_index",
		stackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Frame
	for rows.Next() {
		var f domain.Frame
		if err := rows.Scan(&f.ID, &f.StackID, &f.Index, &f.Path, &f.SHA256, &f.Width, &f.Height, &f.IngestedAt); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	return result, rows.Err()
}

// CountFrames returns the number of frames in a stack
func (r *StackRepository) CountFrames(ctx context.Context, stackID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM frames WHERE stack_id = ?", stackID).Scan(&count)
	return count, err
}

func scanStack(row scanner) (*domain.Stack, error) {
	var s domain.Stack
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

var _ domain.StackRepository = (*StackRepository)(nil)
