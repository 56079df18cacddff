package domain

import (
	"context"
	"time"
)

// ActionLog is the persisted history of one store of a stack
type ActionLog struct {
	StackID   string
	Store     string
	Payload   []byte
	UpdatedAt time.Time
}

// ActionLogRepository defines the interface for action log storage operations
type ActionLogRepository interface {
	// Save stores the log, replacing any previous one
	Save(ctx context.Context, stackID, store string, payload []byte) error

	// Load retrieves the log payload, nil if none was saved
	Load(ctx context.Context, stackID, store string) ([]byte, error)

	// Get retrieves the full log record
	Get(ctx context.Context, stackID, store string) (*ActionLog, error)

	// ListByStack retrieves every log of a stack
	ListByStack(ctx context.Context, stackID string) ([]*ActionLog, error)

	// Delete removes a log
	Delete(ctx context.Context, stackID, store string) error
}
