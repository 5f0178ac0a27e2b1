package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streaksync"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("habit not found"), expected: "Error: habit not found"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("loading logs: %w", storage.ErrUnauthenticated),
			expected: "Error: loading logs: not authenticated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("invalid month %q", "2024-13")
	if want := `Error: invalid month "2024-13"`; got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "nil", err: nil, contains: ""},
		{name: "plain error", err: errors.New("boom"), contains: ""},
		{
			name:     "unauthenticated",
			err:      fmt.Errorf("GET /auth/me: %w", storage.ErrUnauthenticated),
			contains: "habitstreak login",
		},
		{name: "in flight", err: streaksync.ErrCompletionInFlight, contains: "Try again"},
		{name: "not initialized", err: storage.ErrNotInitialized, contains: "habitstreak init"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("Hint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Hint() = %q, want to contain %q", got, tt.contains)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(fmt.Errorf("syncing streak: %w", storage.ErrUnauthenticated))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Fatal() did not exit with error: %v", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("Fatal() exit code = %d, want 1", exitErr.ExitCode())
	}
	out := stderr.String()
	if !strings.Contains(out, "Error: syncing streak: not authenticated") {
		t.Errorf("stderr = %q, missing formatted error", out)
	}
	if !strings.Contains(out, "login") {
		t.Errorf("stderr = %q, missing login hint", out)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")
	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, got %v", err)
	}
}

func TestFatalf(t *testing.T) {
	if os.Getenv("GO_TEST_FATALF") == "1" {
		Fatalf("unknown habit %q", "run")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatalf$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATALF=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("Fatalf() did not exit with code 1: %v", err)
	}
	if !strings.Contains(stderr.String(), `Error: unknown habit "run"`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}
