// Package assign contains the pure business logic for assignment
// preconditions. Guards are pure functions that evaluate rules without
// side effects.
package assign

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// DirectAssignContext provides context for direct-assignment guards.
type DirectAssignContext struct {
	ItemID      string
	ItemExists  bool
	UserID      string
	UserExists  bool
	UserEnabled bool
}

// CanAssignDirect evaluates whether an item can be assigned to a
// specific user.
// Rules:
// - Item must exist
// - User must exist and be enabled
func CanAssignDirect(ctx DirectAssignContext) GuardResult {
	if !ctx.ItemExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("item %s not found", ctx.ItemID)}
	}
	if !ctx.UserExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("user %s not found", ctx.UserID)}
	}
	if !ctx.UserEnabled {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("user %s is disabled", ctx.UserID)}
	}
	return GuardResult{Allowed: true}
}

// CreateRequestContext provides context for request-creation guards.
type CreateRequestContext struct {
	ItemID        string
	ItemExists    bool
	RequestedUser string
	UserExists    bool
	UserEnabled   bool
	Reason        string
}

// CanCreateRequest evaluates whether an assignment request can be filed.
// Rules:
// - Item must exist
// - Requested user must exist and be enabled
// - A reason is required
func CanCreateRequest(ctx CreateRequestContext) GuardResult {
	if !ctx.ItemExists {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("item %s not found", ctx.ItemID)}
	}
	if !ctx.UserExists || !ctx.UserEnabled {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("requested user %s is not valid or enabled", ctx.RequestedUser)}
	}
	if ctx.Reason == "" {
		return GuardResult{Allowed: false, Reason: "a reason is required"}
	}
	return GuardResult{Allowed: true}
}

// DecideRequestContext provides context for approve/reject guards.
type DecideRequestContext struct {
	RequestID     string
	RequestStatus string
	DeciderID     string
	IsAdmin       bool // true when the decider holds an admin role
}

// CanDecideRequest evaluates whether a request can be approved or
// rejected by the decider.
// Rules:
// - Decider must hold an admin role
// - Request must still be pending
func CanDecideRequest(ctx DecideRequestContext) GuardResult {
	if !ctx.IsAdmin {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("user %s is not permitted to decide assignment requests", ctx.DeciderID)}
	}
	if ctx.RequestStatus != "pending" {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("request %s is not pending (current status: %s)", ctx.RequestID, ctx.RequestStatus)}
	}
	return GuardResult{Allowed: true}
}
