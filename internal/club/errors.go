package club

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a match, player or record does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or incomplete input. It is always
// recoverable: Field names the thing to correct.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a booking rejected because players are already
// committed to another match in the same slot.
type ConflictError struct {
	Date      string
	Slot      string
	PlayerIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("players already booked at %s on %s: %s",
		e.Slot, e.Date, strings.Join(e.PlayerIDs, ", "))
}

// LockedError reports a double-point grant rejected by the fortnight or
// same-day rule.
type LockedError struct {
	PlayerID string
	MatchID  string
	Reason   string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("double point locked for player %s: %s", e.PlayerID, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsLocked reports whether err is (or wraps) a LockedError.
func IsLocked(err error) bool {
	var le *LockedError
	return errors.As(err, &le)
}
