package primary

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for assignment failures. Callers branch on these with
// errors.Is; the messages are what operators see.
var (
	// ErrNoEligibleUsers means the role has zero qualifying users.
	// A configuration problem; never retried automatically.
	ErrNoEligibleUsers = errors.New("no eligible users for role")

	// ErrItemNotFound means the referenced work item does not exist.
	ErrItemNotFound = errors.New("work item not found")

	// ErrInvalidUser means the direct-assignment target does not exist
	// or is disabled.
	ErrInvalidUser = errors.New("invalid or disabled user")

	// ErrOfficeClosed means an automatic assignment was attempted
	// outside the configured office hours.
	ErrOfficeClosed = errors.New("office is closed")
)

// PoolExhaustedError means the role has eligible users but every one of
// them has already been tried on this specific item. It carries both
// lists so the caller can decide to broaden the role or escalate.
type PoolExhaustedError struct {
	Role     string
	Eligible []string
	Tried    []string
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("all eligible users for role %q already assigned to this item (eligible: %s; tried: %s)",
		e.Role, strings.Join(e.Eligible, ", "), strings.Join(e.Tried, ", "))
}

// IsPoolExhausted reports whether err is a PoolExhaustedError and
// returns it when so.
func IsPoolExhausted(err error) (*PoolExhaustedError, bool) {
	var pe *PoolExhaustedError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
