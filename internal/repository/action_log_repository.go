package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lewtec/segtrack/internal/domain"
)

// ActionLogRepository implements domain.ActionLogRepository on SQLite
type ActionLogRepository struct {
	db DBTX
}

// NewActionLogRepository creates a new ActionLogRepository
func NewActionLogRepository(db *sql.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// NewActionLogRepositoryWithTx creates a new ActionLogRepository with a transaction
func NewActionLogRepositoryWithTx(tx *sql.Tx) *ActionLogRepository {
	return &ActionLogRepository{db: tx}
}

// Save stores the log, replacing any previous one
func (r *ActionLogRepository) Save(ctx context.Context, stackID, store string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO action_logs (stack_id, store, payload, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(stack_id, store) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		stackID, store, string(payload), time.Now().UTC())
	return err
}

// Load retrieves the log payload, nil if none was saved
func (r *ActionLogRepository) Load(ctx context.Context, stackID, store string) ([]byte, error) {
	l, err := r.Get(ctx, stackID, store)
	if err != nil || l == nil {
		return nil, err
	}
	return l.Payload, nil
}

// Get retrieves the full log record
func (r *ActionLogRepository) Get(ctx context.Context, stackID, store string) (*domain.ActionLog, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT stack_id, store, payload, updated_at FROM action_logs WHERE stack_id = ? AND store = ?",
		stackID, store)
	return scanActionLog(row)
}

// ListByStack retrieves every log of a stack
func (r *ActionLogRepository) ListByStack(ctx context.Context, stackID string) ([]*domain.ActionLog, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT stack_id, store, payload, updated_at FROM action_logs WHERE stack_id = ? ORDER BY store",
		stackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.ActionLog
	for rows.Next() {
		l, err := scanActionLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Delete removes a log
func (r *ActionLogRepository) Delete(ctx context.Context, stackID, store string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM action_logs WHERE stack_id = ? AND store = ?", stackID, store)
	return err
}

func scanActionLog(row scanner) (*domain.ActionLog, error) {
	var l domain.ActionLog
	var payload string
	if err := row.Scan(&l.StackID, &l.Store, &payload, &l.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	l.Payload = []byte(payload)
	return &l, nil
}

var _ domain.ActionLogRepository = (*ActionLogRepository)(nil)
