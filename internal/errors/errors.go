// Package errors renders failures at the CLI boundary. Commands return plain
// wrapped errors; main funnels them through Fatal so every failure is logged
// once and printed once, with the same prefix.
package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/confmate/internal/logger"
)

// Format renders an error for the terminal. Returns "" for nil.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf renders a formatted message with the standard error prefix.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs the error, prints it to stderr, and exits with code 1. A nil
// error is a no-op, so it can wrap a command's return value directly.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

// Fatalf is Fatal for a formatted message.
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
