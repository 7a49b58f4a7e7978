package ir

// Version constants for the instance format and solver.
const (
	// FormatVersion is the instance/run-log schema version.
	FormatVersion = "1"

	// SolverVersion is the roommates solver version recorded with every run.
	SolverVersion = "0.1.0"
)
