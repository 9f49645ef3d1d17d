package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Column", "Member", "Kind")
	table.AddRow("id", "ID", "int")
	table.AddRow("name", "Name", "string")
	table.AddRow("active")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Column  Member  Kind" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[1] != "──────  ──────  ──────" {
		t.Errorf("unexpected separator %q", lines[1])
	}
	if lines[3] != "name    Name    string" {
		t.Errorf("unexpected row %q", lines[3])
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Len())
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	if buf.Len() != 0 {
		t.Errorf("expected no output for a table without headers, got %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Entity", "User")
	kv.AddRow("Table", "users")
	kv.AddRow("Id column", "id")
	kv.Render()

	want := "Entity:    User\nTable:     users\nId column: id\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Entities", true)
	if buf.String() != "Entities\n────────\n" {
		t.Errorf("unexpected header %q", buf.String())
	}
}
