package roommates

import (
	"errors"
	"fmt"
)

// Reason tags an algorithmic outcome in which no stable matching exists.
// Reasons are results, not errors: they are reported in Result.Reason.
type Reason string

const (
	// ReasonPhase1Unresolved: some participant holds no offer after the
	// proposal phase.
	ReasonPhase1Unresolved Reason = "PHASE1_UNRESOLVED"

	// ReasonPhase1ReductionEmpty: a preference list became empty during
	// reduction.
	ReasonPhase1ReductionEmpty Reason = "PHASE1_REDUCTION_EMPTY"

	// ReasonPhase2CycleBroken: a rotation could not be discovered or
	// eliminated because a list ran out of entries.
	ReasonPhase2CycleBroken Reason = "PHASE2_CYCLE_BROKEN"

	// ReasonPhase2Incomplete: rotation elimination stopped with some list
	// not reduced to exactly one entry.
	ReasonPhase2Incomplete Reason = "PHASE2_INCOMPLETE"
)

// Reasons lists every failure reason in phase order.
var Reasons = []Reason{
	ReasonPhase1Unresolved,
	ReasonPhase1ReductionEmpty,
	ReasonPhase2CycleBroken,
	ReasonPhase2Incomplete,
}

// Store faults. These only surface when an invariant has been violated.
var (
	// ErrOutOfRange is returned by NthRemaining when fewer than n entries survive.
	ErrOutOfRange = errors.New("preference index out of range")

	// ErrNotPresent is returned by RemoveMutual when the pair was already removed.
	ErrNotPresent = errors.New("entry not present in preference list")

	// ErrUnknownParticipant is returned for ids that are not in the store.
	ErrUnknownParticipant = errors.New("unknown participant")
)

// ErrInputMalformed matches every *InputError via errors.Is.
var ErrInputMalformed = errors.New("input malformed")

// InputErrorCode categorizes caller contract violations.
type InputErrorCode string

const (
	// ErrCodeEmptyInstance indicates an instance with no participants.
	ErrCodeEmptyInstance InputErrorCode = "EMPTY_INSTANCE"

	// ErrCodeOddCount indicates an odd number of participants.
	ErrCodeOddCount InputErrorCode = "ODD_COUNT"

	// ErrCodeEmptyID indicates a participant with an empty id.
	ErrCodeEmptyID InputErrorCode = "EMPTY_ID"

	// ErrCodeDuplicateParticipant indicates the same id appears twice in the
	// participant order.
	ErrCodeDuplicateParticipant InputErrorCode = "DUPLICATE_PARTICIPANT"

	// ErrCodeMissingPreferences indicates a participant with no list at all.
	ErrCodeMissingPreferences InputErrorCode = "MISSING_PREFERENCES"

	// ErrCodeWrongLength indicates a list that is not of length n-1.
	ErrCodeWrongLength InputErrorCode = "WRONG_LENGTH"

	// ErrCodeSelfReference indicates a participant ranking itself.
	ErrCodeSelfReference InputErrorCode = "SELF_REFERENCE"

	// ErrCodeUnknownParticipant indicates a list naming a non-participant.
	ErrCodeUnknownParticipant InputErrorCode = "UNKNOWN_PARTICIPANT"

	// ErrCodeDuplicateEntry indicates a list naming someone twice.
	ErrCodeDuplicateEntry InputErrorCode = "DUPLICATE_ENTRY"
)

// InputError reports a caller contract violation detected before phase 1.
type InputError struct {
	// Code identifies the violation.
	Code InputErrorCode

	// Message is a human-readable description.
	Message string

	// Participant is the offending participant, if any.
	Participant string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Participant != "" {
		return fmt.Sprintf("%s: %s (participant=%s)", e.Code, e.Message, e.Participant)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is ErrInputMalformed.
func (e *InputError) Is(target error) bool {
	return target == ErrInputMalformed
}

// IsInputError returns true if the error is an InputError.
// Uses errors.As to handle wrapped errors.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

func newInputError(code InputErrorCode, participant, format string, args ...any) *InputError {
	return &InputError{
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		Participant: participant,
	}
}
