package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse_ZerologLine(t *testing.T) {
	line := `{"level":"error","app":"folio","component":"store","resource":"portfolio","op":"load","status":500,"error":"api GET /portfolio returned status 500","time":"2024-05-01T10:00:00Z","message":"load failed"}`

	e := Parse(line)
	if e.Level != "error" || e.Component != "store" || e.Resource != "portfolio" || e.Op != "load" {
		t.Fatalf("Parse() = %#v, want store/portfolio/load error", e)
	}
	if e.Message != "load failed" {
		t.Fatalf("Message = %q, want %q", e.Message, "load failed")
	}
	if !strings.Contains(e.Error, "status 500") {
		t.Fatalf("Error = %q, want status 500", e.Error)
	}
	if e.Time.IsZero() || e.Time.Year() != 2024 {
		t.Fatalf("Time = %v, want 2024-05-01", e.Time)
	}
	if got := e.Fields["status"]; got != "500" {
		t.Fatalf("Fields[status] = %q, want 500", got)
	}
	if _, ok := e.Fields["app"]; ok {
		t.Fatalf("reserved key app leaked into Fields: %#v", e.Fields)
	}
	if keys := e.FieldKeys(); !reflect.DeepEqual(keys, []string{"status"}) {
		t.Fatalf("FieldKeys() = %v, want [status]", keys)
	}
}

func TestParse_PlainText(t *testing.T) {
	e := Parse("  not json at all ")
	if e.Message != "not json at all" || e.Level != "" {
		t.Fatalf("Parse() = %#v, want plain message", e)
	}

	e = Parse("{broken")
	if e.Message != "{broken" {
		t.Fatalf("Parse() = %#v, want raw message for broken json", e)
	}
}

func TestParseAll_SkipsBlankLines(t *testing.T) {
	got := ParseAll([]string{`{"message":"a"}`, "   ", "b"})
	if len(got) != 2 || got[0].Message != "a" || got[1].Message != "b" {
		t.Fatalf("ParseAll() = %#v, want two entries", got)
	}
	if ParseAll(nil) != nil {
		t.Fatalf("ParseAll(nil) should be nil")
	}
}
