package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "TYPE"}, [][]string{
		{"1", "text"},
		{"node-abc", "shape"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "  ID        TYPE" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[3] != "  node-abc  shape" {
		t.Errorf("row = %q", lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestField(t *testing.T) {
	var buf bytes.Buffer
	Field(&buf, "Nodes", "3")
	if buf.String() != "  Nodes:     3\n" {
		t.Errorf("Field = %q", buf.String())
	}
}

func TestStatusIcon(t *testing.T) {
	if StatusIcon(true) != "\u2713" || StatusIcon(false) != "\u2717" {
		t.Error("unexpected status icons")
	}
}
