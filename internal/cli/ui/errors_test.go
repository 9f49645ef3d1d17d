package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/darkshade/shade/pkg/shade"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		contains []string
	}{
		{
			name: "error with context",
			msg: Message{
				Level:   LevelError,
				Context: "entity not found",
				Problem: "no entity named 'Usr'",
			},
			contains: []string{"✗", "ENTITY NOT FOUND", "no entity named 'Usr'"},
		},
		{
			name: "suggestions and hints",
			msg: Message{
				Level:       LevelError,
				Problem:     "no entity named 'Usr'",
				Suggestions: []string{"User", "Note"},
				Hints:       []string{"List entities: shade inspect"},
			},
			contains: []string{"Did you mean: User, Note?", "→ List entities: shade inspect"},
		},
		{
			name:     "warning",
			msg:      Message{Level: LevelWarning, Problem: "table already exists"},
			contains: []string{"! table already exists"},
		},
		{
			name:     "info with cause",
			msg:      Message{Level: LevelInfo, Problem: "using defaults", Cause: "shade.yaml not found"},
			contains: []string{"i using defaults", "cause: shade.yaml not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.msg.NoColor = true
			output := Format(tt.msg)
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("Format() output missing %q\ngot:\n%s", want, output)
				}
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	connErr := &shade.ConnectionError{Target: "postgres://localhost/app", User: "ada", Err: errors.New("connection refused")}
	m := ErrorMessage(fmt.Errorf("ping: %w", connErr), true)
	if m.Context != "connection failed" {
		t.Errorf("expected connection context, got %q", m.Context)
	}
	if m.Cause != "connection refused" {
		t.Errorf("expected cause 'connection refused', got %q", m.Cause)
	}

	schemaErr := &shade.SchemaError{Type: "Orphan", Err: shade.ErrMissingEntity}
	m = ErrorMessage(schemaErr, true)
	if m.Context != "invalid entity" {
		t.Errorf("expected schema context, got %q", m.Context)
	}
	if len(m.Hints) != 1 || !strings.HasSuffix(m.Hints[0], "shade inspect Orphan") {
		t.Errorf("unexpected hints %v", m.Hints)
	}

	persistErr := &shade.PersistenceError{Op: "insert into", Table: "users", Err: shade.ErrUniqueViolation}
	m = ErrorMessage(persistErr, true)
	if m.Problem != "insert into users" {
		t.Errorf("unexpected problem %q", m.Problem)
	}

	m = ErrorMessage(errors.New("plain"), true)
	if m.Context != "" || m.Problem != "plain" {
		t.Errorf("plain errors should pass through, got %+v", m)
	}
}

func TestSuccess(t *testing.T) {
	var buf bytes.Buffer
	Success(&buf, "connected", true)
	if buf.String() != "✓ connected\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
