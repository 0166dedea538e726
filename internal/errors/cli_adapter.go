package errors

import (
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the sitegen CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var se *SiteError
	if stdErrors.As(err, &se) {
		return a.exitCodeFromSiteError(se)
	}

	return 1
}

// exitCodeFromSiteError maps SiteError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromSiteError(err *SiteError) int {
	if err.Severity == SeverityWarning {
		return 0 // Warnings never fail the build
	}
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryDescribe, CategoryServer:
		return 8 // External system error
	case CategoryTemplate, CategoryFileSystem, CategoryScan:
		return 11 // Build error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var se *SiteError
	if stdErrors.As(err, &se) {
		if a.verbose {
			return se.Error()
		}
		switch se.Category {
		case CategoryConfig, CategoryValidation:
			return se.Message
		default:
			return fmt.Sprintf("%s: %s", se.Category, se.Message)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	a.logError(err)
	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	var se *SiteError
	if stdErrors.As(err, &se) {
		level := slog.LevelError
		if se.Severity == SeverityWarning {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{slog.String("category", string(se.Category))}
		if path, ok := se.Context["path"]; ok {
			attrs = append(attrs, slog.Any("path", path))
		}
		a.logger.LogAttrs(nil, level, se.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}
