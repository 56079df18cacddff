package domain

import (
	"context"
	"time"
)

// Stack is an ordered sequence of images annotated together
type Stack struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Frame is one image of a stack
type Frame struct {
	ID         int64
	StackID    string
	Index      int
	Path       string
	SHA256     string
	Width      int
	Height     int
	IngestedAt time.Time
}

// StackRepository defines the interface for stack and frame storage operations
type StackRepository interface {
	// CreateStack creates a new, empty stack
	CreateStack(ctx context.Context, name string) (*Stack, error)

	// GetStack retrieves a stack by ID
	GetStack(ctx context.Context, id string) (*Stack, error)

	// GetStackByName retrieves a stack by its name
	GetStackByName(ctx context.Context, name string) (*Stack, error)

	// ListStacks retrieves all stacks
	ListStacks(ctx context.Context) ([]*Stack, error)

	// DeleteStack removes a stack with its frames and action logs
	DeleteStack(ctx context.Context, id string) error

	// AddFrame appends a frame to the end of a stack
	AddFrame(ctx context.Context, stackID, path, sha256 string, width, height int) (*Frame, error)

	// ListFrames retrieves the frames of a stack in order
	ListFrames(ctx context.Context, stackID string) ([]*Frame, error)

	// CountFrames returns the number of frames in a stack
	CountFrames(ctx context.Context, stackID string) (int, error)
}
