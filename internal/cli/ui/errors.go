package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/darkshade/shade/pkg/shade"
)

// Level represents the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message describes a formatted CLI message
type Message struct {
	Level       Level
	Context     string
	Problem     string
	Cause       string
	Suggestions []string
	Hints       []string
	NoColor     bool
}

// Format renders a message
//
// Example output:
//
//	✗ CONNECTION FAILED: cannot reach postgres://localhost/app
//	   cause: connection refused
//
//	   → Check the url: shade ping --url <url>
func Format(m Message) string {
	var b strings.Builder

	var header, body *color.Color
	var symbol string
	switch m.Level {
	case LevelWarning:
		header, body, symbol = color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "!"
	case LevelInfo:
		header, body, symbol = color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "i"
	default:
		header, body, symbol = color.New(color.FgRed, color.Bold), color.New(color.FgRed), "✗"
	}
	if m.NoColor {
		header.DisableColor()
		body.DisableColor()
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(m.Context), m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}
	if m.Cause != "" {
		body.Fprintf(&b, "   cause: %s\n", m.Cause)
	}

	if len(m.Suggestions) > 0 {
		yellow := color.New(color.FgYellow)
		if m.NoColor {
			yellow.DisableColor()
		}
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.Hints) > 0 {
		cyan := color.New(color.FgCyan)
		if m.NoColor {
			cyan.DisableColor()
		}
		b.WriteString("\n")
		for _, hint := range m.Hints {
			cyan.Fprintf(&b, "   → %s\n", hint)
		}
	}

	return b.String()
}

// Write writes a formatted message to w
func Write(w io.Writer, m Message) {
	fmt.Fprint(w, Format(m))
}

// Success writes a success line to w
func Success(w io.Writer, message string, noColor bool) {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	green.Fprintf(w, "✓ %s\n", message)
}

// ErrorMessage classifies err by the shade error taxonomy and builds a message for it
func ErrorMessage(err error, noColor bool) Message {
	m := Message{Level: LevelError, Problem: err.Error(), NoColor: noColor}

	var (
		connErr    *shade.ConnectionError
		schemaErr  *shade.SchemaError
		sessErr    *shade.SessionError
		persistErr *shade.PersistenceError
	)
	switch {
	case errors.As(err, &connErr):
		m.Context = "connection failed"
		m.Problem = "cannot reach " + connErr.Target
		m.Cause = connErr.Err.Error()
		m.Hints = []string{
			"Check the url: shade ping --url <url>",
			"Set credentials: SHADE_DATABASE_USER, SHADE_DATABASE_PASSWORD",
		}
	case errors.As(err, &schemaErr):
		m.Context = "invalid entity"
		m.Hints = []string{"See the mapping: shade inspect " + schemaErr.Type}
	case errors.As(err, &sessErr):
		m.Context = "no session"
	case errors.As(err, &persistErr):
		m.Context = "persistence failed"
		m.Problem = fmt.Sprintf("%s %s", persistErr.Op, persistErr.Table)
		m.Cause = persistErr.Err.Error()
	}
	return m
}

// EntityNotFound builds the message for an unknown entity name
func EntityNotFound(name string, suggestions []string, noColor bool) Message {
	return Message{
		Level:       LevelError,
		Context:     "entity not found",
		Problem:     fmt.Sprintf("no entity named '%s'", name),
		Suggestions: suggestions,
		Hints:       []string{"List entities: shade inspect"},
		NoColor:     noColor,
	}
}
