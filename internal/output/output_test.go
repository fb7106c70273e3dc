package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	err := printer.Success(map[string]any{
		"output": "single-file/argum.h",
		"guard":  "ARGUM_H",
	})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["output"] != "single-file/argum.h" {
		t.Errorf("output = %v, want %q", result["output"], "single-file/argum.h")
	}
	if result["guard"] != "ARGUM_H" {
		t.Errorf("guard = %v, want %q", result["guard"], "ARGUM_H")
	}
}

func TestPrinter_JSON_Error(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, true, false)

	printer.Error(NewConflictError("output is out of date: out.h"))

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["error"] != "output is out of date: out.h" {
		t.Errorf("error = %v", result["error"])
	}
	if code, ok := result["code"].(float64); !ok || int(code) != ExitConflict {
		t.Errorf("code = %v, want %d", result["code"], ExitConflict)
	}
}

func TestPrinter_Human_ErrorGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	printer := NewPrinter(&out, false, false).WithStderr(&errOut)

	printer.Error(NewUserError("template not found: t.h"))

	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Error: template not found: t.h") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestPrinter_Human_Success(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	if err := printer.Success(map[string]any{"message": "Wrote out.h"}); err != nil {
		t.Fatalf("Success() error = %v", err)
	}
	if buf.String() != "Wrote out.h\n" {
		t.Errorf("output = %q, want %q", buf.String(), "Wrote out.h\n")
	}
}

func TestPrinter_Warn(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false, false).Warn("target %s has no placeholders", "argum")
	if !strings.Contains(buf.String(), "Warning: target argum has no placeholders") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	NewPrinter(&buf, true, false).Warn("dry run")
	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, buf.String())
	}
	if result["warning"] != "dry run" {
		t.Errorf("warning = %v, want %q", result["warning"], "dry run")
	}
}

func TestPrinter_List(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.List("Inlined", []string{"common.h", "parser.h"})
	printer.List("Empty", nil)

	want := "Inlined: 2\n  - common.h\n  - parser.h\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, false)

	printer.Table([]string{"TARGET", "STATUS"}, [][]string{
		{"argum", "written"},
		{"mod", "up to date"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if got := strings.Fields(lines[0]); len(got) != 2 || got[0] != "TARGET" || got[1] != "STATUS" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "mod     up to date" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestErrorJSON_Format(t *testing.T) {
	var parsed struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	if err := json.Unmarshal(ErrorJSON("test error", ExitSystemError), &parsed); err != nil {
		t.Fatalf("Failed to parse ErrorJSON output: %v", err)
	}
	if parsed.Error != "test error" || parsed.Code != ExitSystemError {
		t.Errorf("parsed = %+v", parsed)
	}
}
