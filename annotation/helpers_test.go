package annotation

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/lewtec/segtrack/internal/domain"
	"github.com/lewtec/segtrack/internal/repository"
)

type scriptedPrompter struct {
	answer bool
	asked  []string
	infos  []string
	errors []string
}

func (p *scriptedPrompter) Confirm(_ context.Context, message string) (bool, error) {
	p.asked = append(p.asked, message)
	return p.answer, nil
}

func (p *scriptedPrompter) Info(message string)  { p.infos = append(p.infos, message) }
func (p *scriptedPrompter) Error(message string) { p.errors = append(p.errors, message) }

func testConfig(t *testing.T) *Config {
	t.Helper()
	config, err := ParseConfig([]byte(`
labels:
  - name: Cell
  - name: Debris
    color: "#ff0000"
`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	return config
}

// testStack registers a stack of 100x100 frames.
func testStack(t *testing.T, db *sql.DB, frames int) (*domain.Stack, []*domain.Frame) {
	t.Helper()
	ctx := context.Background()
	stacks := repository.NewStackRepository(db)
	stack, err := stacks.CreateStack(ctx, "cells")
	if err != nil {
		t.Fatalf("CreateStack() error = %v", err)
	}
	ret := make([]*domain.Frame, frames)
	for i := range ret {
		ret[i], err = stacks.AddFrame(ctx, stack.ID, fmt.Sprintf("/frames/t%03d.png", i), "hash", 100, 100)
		if err != nil {
			t.Fatalf("AddFrame() error = %v", err)
		}
	}
	return stack, ret
}

func newTestSession(t *testing.T, db *sql.DB, prompter *scriptedPrompter) *Session {
	t.Helper()
	s, err := OpenSession(context.Background(), db, testConfig(t), "cells", prompter)
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	return s
}
