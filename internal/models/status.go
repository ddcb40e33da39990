package models

// Follow-up task status constants
const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
	TaskStatusCanceled   = "canceled"
)

// Task priority constants
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Assignment request status constants
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Work item status constants
const (
	ItemStatusOpen   = "open"
	ItemStatusClosed = "closed"
)

// Notification kinds emitted by the engine.
const (
	NotifyKindAssignment     = "assignment"
	NotifyKindReassignment   = "reassignment"
	NotifyKindFinalOverdue   = "final_overdue"
	NotifyKindRequestPending = "request_pending"
	NotifyKindRequestDecided = "request_decided"
)
