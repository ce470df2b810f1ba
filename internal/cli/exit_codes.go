package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changelogen/internal/errors"
	"github.com/ariel-frischer/changelogen/internal/release"
)

// Exit codes for the changelogen CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (history, rendering, writing)
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates the repository or an input file is missing
	ExitMissingDependencies = 4

	// ExitInvalidConfig indicates the config file could not be loaded
	ExitInvalidConfig = 5

	// ExitVersionExists indicates the resolved version is already tagged
	ExitVersionExists = 6
)

// ExitError carries an exit code for a failure that was already reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an error that makes Execute exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, release.ErrVersionExists) {
		return ExitVersionExists
	}

	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		return ExitFailure
	}
	switch cliErr.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitInvalidConfig
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitFailure
	}
}
