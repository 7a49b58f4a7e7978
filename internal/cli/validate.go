package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/roommates/internal/roommates"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one invalid or unreadable instance file.
type ValidationError struct {
	File        string `json:"file"`
	Code        string `json:"code"`
	Reason      string `json:"reason,omitempty"` // roommates input error code
	Participant string `json:"participant,omitempty"`
	Message     string `json:"message"`
	Line        int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate instance files without solving them",
		Long: `Validate stable roommates instances without solving them.

Checks that every file decodes and that every instance has an even, non-zero
number of participants, each ranking every other participant exactly once.
All files are checked; every problem is reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := LoadInstances(path, LoadModeCollectAll)

	// Handle load errors (path not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d instance file(s) in %s", loadResult.FileCount, path)

	var validationErrors []ValidationError
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, ValidationError{
				File:    loadErr.Path,
				Code:    loadErr.Code,
				Message: loadErr.Message,
				Line:    getLineFromCuePos(loadErr.Pos),
			})
			continue
		}
		validationErrors = append(validationErrors, ValidationError{Code: ErrCodeGeneric, Message: err.Error()})
	}

	for _, file := range loadResult.Files {
		formatter.VerboseLog("Validating %s", file.Path)
		err := roommates.Validate(file.Instance)
		if err == nil {
			continue
		}
		ve := ValidationError{File: file.Path, Code: ErrCodeInvalid, Message: err.Error()}
		var inputErr *roommates.InputError
		if errors.As(err, &inputErr) {
			ve.Reason = string(inputErr.Code)
			ve.Participant = inputErr.Participant
			ve.Message = inputErr.Message
		}
		validationErrors = append(validationErrors, ve)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, loadResult.FileCount, validationErrors)
	}

	return outputValidateSuccess(formatter, loadResult.FileCount)
}

// getLineFromCuePos extracts line number from a token.Pos.
func getLineFromCuePos(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, files int) error {
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Files: files})
	}

	fmt.Fprintf(formatter.Writer, "%s All %d instance(s) valid\n", formatter.Paint(greenAttr, "✓"), files)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs every invalid file.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []ValidationError) error {
	if formatter.JSON() {
		result := ValidationResult{Valid: false, Files: files, Errors: errs}
		if err := formatter.Respond(result, &CLIError{Code: errs[0].Code, Message: errs[0].Message}); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", formatter.Paint(redAttr, "✗"))

	for _, err := range errs {
		loc := err.File
		if err.Line > 0 {
			loc = fmt.Sprintf("%s:%d", err.File, err.Line)
		}
		if loc != "" {
			fmt.Fprintln(formatter.Writer, loc)
		}
		code := err.Code
		if err.Reason != "" {
			code = err.Code + " " + err.Reason
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
