package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/logger"
	"github.com/julianstephens/habitstreak/internal/migration"
	"github.com/julianstephens/habitstreak/internal/storage"
	"github.com/julianstephens/habitstreak/internal/streaksync"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a follow-up suggestion for errors the user can act on, or ""
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, storage.ErrUnauthenticated):
		return fmt.Sprintf("Your session is missing or expired. Run '%s login' and try again.", constants.AppName)
	case stderrors.Is(err, streaksync.ErrCompletionInFlight):
		return "A completion for this habit is still being recorded. Try again in a moment."
	case stderrors.Is(err, storage.ErrNotInitialized):
		return fmt.Sprintf("Run '%s init' first.", constants.AppName)
	case stderrors.Is(err, migration.ErrSchemaTooNew):
		return fmt.Sprintf("Upgrade %s to a newer version.", constants.AppName)
	default:
		return ""
	}
}

// Fatal logs an error, prints it with any hint, and exits with code 1
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
