package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/amalgamate/internal/output"
)

const testManifest = `targets:
  - name: argum
    template: argum.h.in
    output: single-file/argum.h
    dir: inc
  - template: notes.txt.in
    output: single-file/notes.txt
`

// setupBuildProject adds a second template and a manifest to setupProject.
func setupBuildProject(t *testing.T) string {
	t.Helper()
	dir := setupProject(t)
	writeTestFile(t, filepath.Join(dir, "notes.txt.in"), "notes for ##NAME##")
	writeTestFile(t, filepath.Join(dir, "amalgamate.yaml"), testManifest)
	return dir
}

func TestBuildCommand_AllTargets(t *testing.T) {
	dir := setupBuildProject(t)

	stdout, _, err := executeCmd(t, "build", "-m", filepath.Join(dir, "amalgamate.yaml"))
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if got := readTestFile(t, filepath.Join(dir, "single-file", "argum.h")); got != wantArgumHeader {
		t.Errorf("argum.h = %q, want %q", got, wantArgumHeader)
	}
	if got := readTestFile(t, filepath.Join(dir, "single-file", "notes.txt")); got != "notes for NOTES_TXT\n" {
		t.Errorf("notes.txt = %q", got)
	}
	for _, want := range []string{"TARGET", "argum", "notes.txt", "written"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout should contain %q, got:\n%s", want, stdout)
		}
	}
}

func TestBuildCommand_SelectedTarget(t *testing.T) {
	dir := setupBuildProject(t)

	if _, _, err := executeCmd(t, "build", "-m", filepath.Join(dir, "amalgamate.yaml"), "notes.txt"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "single-file", "argum.h")); !os.IsNotExist(err) {
		t.Errorf("unselected target should not be written, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "single-file", "notes.txt")); err != nil {
		t.Errorf("selected target should be written: %v", err)
	}
}

func TestBuildCommand_DefaultManifestInWorkingDirectory(t *testing.T) {
	dir := setupBuildProject(t)

	runInDir(t, dir, func() {
		if _, _, err := executeCmd(t, "build", "argum"); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if got := readTestFile(t, filepath.Join(dir, "single-file", "argum.h")); got != wantArgumHeader {
		t.Errorf("argum.h = %q, want %q", got, wantArgumHeader)
	}
}

func TestBuildCommand_CheckReportsEveryStaleTarget(t *testing.T) {
	dir := setupBuildProject(t)
	manifestPath := filepath.Join(dir, "amalgamate.yaml")

	if _, _, err := executeCmd(t, "build", "-m", manifestPath); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	writeTestFile(t, filepath.Join(dir, "single-file", "notes.txt"), "edited by hand\n")

	stdout, _, err := executeCmd(t, "build", "--json", "--check", "-m", manifestPath)
	if code := output.GetExitCode(err); code != output.ExitConflict {
		t.Fatalf("exit code = %d, want %d (err %v)", code, output.ExitConflict, err)
	}

	var result struct {
		Targets []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"targets"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, stdout)
	}
	if len(result.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(result.Targets))
	}
	if result.Targets[0].Name != "argum" || result.Targets[0].Status != "up-to-date" {
		t.Errorf("targets[0] = %+v", result.Targets[0])
	}
	if result.Targets[1].Name != "notes.txt" || result.Targets[1].Status != "stale" {
		t.Errorf("targets[1] = %+v", result.Targets[1])
	}
}

func TestBuildCommand_CheckWarnsPerStaleTarget(t *testing.T) {
	dir := setupBuildProject(t)
	manifestPath := filepath.Join(dir, "amalgamate.yaml")

	stdout, stderr, err := executeCmd(t, "build", "--check", "-m", manifestPath)
	if code := output.GetExitCode(err); code != output.ExitConflict {
		t.Fatalf("exit code = %d, want %d (err %v)", code, output.ExitConflict, err)
	}
	if !strings.Contains(stderr, "Warning: target argum: output does not exist") {
		t.Errorf("stderr missing argum warning:\n%s", stderr)
	}
	if !strings.Contains(stderr, "2 of 2 targets out of date") {
		t.Errorf("stderr missing summary:\n%s", stderr)
	}
	if !strings.Contains(stdout, "stale") {
		t.Errorf("stdout missing stale status:\n%s", stdout)
	}
}

func TestBuildCommand_Errors(t *testing.T) {
	dir := setupBuildProject(t)
	manifestPath := filepath.Join(dir, "amalgamate.yaml")

	writeTestFile(t, filepath.Join(dir, "broken.yaml"), "targets:\n  - template: missing.in\n    output: out.h\n")

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantCode int
	}{
		{
			name:     "missing manifest",
			args:     []string{"build", "-m", filepath.Join(dir, "none.yaml")},
			wantErr:  "manifest not found",
			wantCode: output.ExitUserError,
		},
		{
			name:     "unknown target",
			args:     []string{"build", "-m", manifestPath, "argum", "zlib"},
			wantErr:  "unknown target: zlib",
			wantCode: output.ExitUserError,
		},
		{
			name:     "target with missing template",
			args:     []string{"build", "-m", filepath.Join(dir, "broken.yaml")},
			wantErr:  "target out.h: template not found",
			wantCode: output.ExitUserError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCmd(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
			if code := output.GetExitCode(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}
