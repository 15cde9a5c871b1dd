package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aki/gitboss/internal/core/status"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	t.Cleanup(func() { Stdout, Stderr = oldOut, oldErr })
	return &out, &errOut
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      OutputFormat
		wantError bool
	}{
		{name: "empty string defaults to pretty", input: "", want: FormatPretty},
		{name: "pretty format", input: "pretty", want: FormatPretty},
		{name: "json format", input: "json", want: FormatJSON},
		{name: "invalid format", input: "xml", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantError {
				t.Errorf("ParseFormat() error = %v, wantError %v", err, tt.wantError)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONFormatter_Output(t *testing.T) {
	out, _ := captureOutput(t)

	rendered := false
	err := NewJSONFormatter().Output(map[string][]string{"repositories": {"/src/a"}}, func() { rendered = true })
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if rendered {
		t.Error("JSON output must not call the pretty renderer")
	}

	var result map[string][]string
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if len(result["repositories"]) != 1 || result["repositories"][0] != "/src/a" {
		t.Errorf("Unexpected JSON output: %v", result)
	}
}

func TestFormatter_OutputError(t *testing.T) {
	out, errOut := captureOutput(t)

	_ = NewJSONFormatter().OutputError(errors.New("boom"))
	if out.Len() != 0 {
		t.Errorf("errors must not go to stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Error: boom") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
}

func TestSetGlobalFormatter(t *testing.T) {
	original := GlobalFormatter
	defer func() { GlobalFormatter = original }()

	if err := SetGlobalFormatter(FormatJSON); err != nil {
		t.Fatalf("SetGlobalFormatter(FormatJSON) error = %v", err)
	}
	if !GlobalFormatter.IsJSON() {
		t.Error("GlobalFormatter should be JSON formatter")
	}

	if err := SetGlobalFormatter(FormatPretty); err != nil {
		t.Fatalf("SetGlobalFormatter(FormatPretty) error = %v", err)
	}
	if GlobalFormatter.IsJSON() {
		t.Error("GlobalFormatter should be pretty formatter")
	}

	if err := SetGlobalFormatter("yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestPrintRepositoryList(t *testing.T) {
	out, _ := captureOutput(t)

	PrintRepositoryList([]string{"/src/alpha", "/src/group/beta"})
	got := out.String()
	for _, want := range []string{"Repositories (2)", "alpha", "beta", "/src/group/beta"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	PrintRepositoryList(nil)
	if !strings.Contains(out.String(), "No repositories tracked") {
		t.Errorf("unexpected empty output %q", out.String())
	}
}

func TestPrintStatus(t *testing.T) {
	out, _ := captureOutput(t)

	PrintStatus(&status.Snapshot{
		Path:          "/src/alpha",
		Dirty:         true,
		Branches:      []string{"main", "feature"},
		CurrentBranch: "feature",
		ChangedPaths:  []string{" M main.go"},
	})
	got := out.String()
	for _, want := range []string{"alpha", "dirty", "feature", "main, feature", "Changes (1)", " M main.go"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	PrintStatus(&status.Snapshot{Path: "/src/beta", Detached: true, ChangedPathsErr: "status query failed"})
	got = out.String()
	for _, want := range []string{"clean", "(detached)", "unavailable: status query failed"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintStatusTable(t *testing.T) {
	out, _ := captureOutput(t)

	PrintStatusTable([]status.Result{
		{Path: "/src/alpha", Snapshot: &status.Snapshot{Path: "/src/alpha", CurrentBranch: "main"}},
		{Path: "/src/gone", Err: status.ErrNotARepository},
	})
	got := out.String()
	for _, want := range []string{"Status (2)", "alpha", "main", "clean", "gone", "invalid"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"/src/alpha":  "alpha",
		"/src/alpha/": "alpha",
		"alpha":       "alpha",
	}
	for in, want := range tests {
		if got := baseName(in); got != want {
			t.Errorf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}
