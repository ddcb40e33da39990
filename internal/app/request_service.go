package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/core/assign"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// RequestServiceImpl implements the RequestService interface.
type RequestServiceImpl struct {
	requests   secondary.RequestRepository
	items      secondary.WorkItemRepository
	users      secondary.UserDirectory
	activity   secondary.ActivityRepository
	notify     secondary.NotificationDispatcher
	assignment primary.AssignmentService
	directory  primary.DirectoryService
	clock      secondary.Clock
	cfg        *config.Settings
}

// NewRequestService creates a new RequestService with injected dependencies.
func NewRequestService(
	requests secondary.RequestRepository,
	items secondary.WorkItemRepository,
	users secondary.UserDirectory,
	activity secondary.ActivityRepository,
	notify secondary.NotificationDispatcher,
	assignment primary.AssignmentService,
	directory primary.DirectoryService,
	clock secondary.Clock,
	cfg *config.Settings,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		requests:   requests,
		items:      items,
		users:      users,
		activity:   activity,
		notify:     notify,
		assignment: assignment,
		directory:  directory,
		clock:      clock,
		cfg:        cfg,
	}
}

// Create files a pending request, posts a timeline note on the item
// and notifies the admins and the requester.
func (s *RequestServiceImpl) Create(ctx context.Context, input primary.CreateRequestInput) (*primary.AssignmentRequest, error) {
	_, itemErr := s.items.Get(ctx, input.ItemType, input.ItemID)
	if itemErr != nil && itemErr != secondary.ErrNotFound {
		return nil, fmt.Errorf("failed to load item: %w", itemErr)
	}

	user, userErr := s.users.GetUser(ctx, input.RequestedUser)
	if userErr != nil && userErr != secondary.ErrNotFound {
		return nil, fmt.Errorf("failed to load user: %w", userErr)
	}

	guardCtx := assign.CreateRequestContext{
		ItemID:        input.ItemID,
		ItemExists:    itemErr == nil,
		RequestedUser: input.RequestedUser,
		Reason:        input.Reason,
	}
	if userErr == nil {
		guardCtx.UserExists = true
		guardCtx.UserEnabled = user.Enabled
	}
	if result := assign.CanCreateRequest(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	id, err := s.requests.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate request ID: %w", err)
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	record := &secondary.RequestRecord{
		ID:            id,
		ItemType:      input.ItemType,
		ItemID:        input.ItemID,
		RequestedUser: input.RequestedUser,
		RequestedBy:   input.RequestedBy,
		Reason:        input.Reason,
		Status:        models.RequestStatusPending,
		CreatedAt:     now,
	}
	if err := s.requests.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.note(ctx, string(input.ItemType), input.ItemID, input.RequestedBy,
		fmt.Sprintf("Assignment to %s requested (%s): %s", input.RequestedUser, id, input.Reason))

	admins, err := adminUsers(ctx, s.users, s.cfg)
	if err != nil {
		log.Printf("warning: failed to resolve admins for request %s: %v", id, err)
	}
	for _, admin := range admins {
		s.send(ctx, admin, models.NotifyKindRequestPending,
			fmt.Sprintf("%s requests %s %s be assigned to %s (%s)",
				input.RequestedBy, input.ItemType.Label(), input.ItemID, input.RequestedUser, id), id)
	}
	s.send(ctx, input.RequestedBy, models.NotifyKindRequestPending,
		fmt.Sprintf("Your assignment request %s is pending review", id), id)

	return s.recordToRequest(record), nil
}

// Approve performs the direct assignment and marks the request
// approved. Terminal.
func (s *RequestServiceImpl) Approve(ctx context.Context, requestID, approvedBy, note string) error {
	record, err := s.guardDecision(ctx, requestID, approvedBy)
	if err != nil {
		return err
	}

	_, err = s.assignment.AssignDirect(ctx, primary.AssignDirectRequest{
		ItemType:   record.ItemType,
		ItemID:     record.ItemID,
		UserID:     record.RequestedUser,
		AssignedBy: approvedBy,
	})
	if err != nil {
		return fmt.Errorf("failed to apply approved assignment: %w", err)
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	if err := s.requests.Decide(ctx, requestID, models.RequestStatusApproved, approvedBy, now, note, ""); err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	s.note(ctx, string(record.ItemType), record.ItemID, approvedBy,
		fmt.Sprintf("Assignment request %s approved", requestID))
	s.send(ctx, record.RequestedBy, models.NotifyKindRequestDecided,
		fmt.Sprintf("Your assignment request %s was approved by %s", requestID, approvedBy), requestID)
	return nil
}

// Reject marks the request rejected with the reason. Terminal.
func (s *RequestServiceImpl) Reject(ctx context.Context, requestID, rejectedBy, reason string) error {
	record, err := s.guardDecision(ctx, requestID, rejectedBy)
	if err != nil {
		return err
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	if err := s.requests.Decide(ctx, requestID, models.RequestStatusRejected, rejectedBy, now, "", reason); err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	s.note(ctx, string(record.ItemType), record.ItemID, rejectedBy,
		fmt.Sprintf("Assignment request %s rejected: %s", requestID, reason))
	s.send(ctx, record.RequestedBy, models.NotifyKindRequestDecided,
		fmt.Sprintf("Your assignment request %s was rejected by %s: %s", requestID, rejectedBy, reason), requestID)
	return nil
}

// guardDecision loads the request and checks the decider may decide it.
func (s *RequestServiceImpl) guardDecision(ctx context.Context, requestID, deciderID string) (*secondary.RequestRecord, error) {
	record, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == secondary.ErrNotFound {
			return nil, fmt.Errorf("request %s not found", requestID)
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	isAdmin, err := s.directory.IsAdmin(ctx, deciderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permissions: %w", err)
	}

	result := assign.CanDecideRequest(assign.DecideRequestContext{
		RequestID:     requestID,
		RequestStatus: record.Status,
		DeciderID:     deciderID,
		IsAdmin:       isAdmin,
	})
	if !result.Allowed {
		return nil, result.Error()
	}
	return record, nil
}

// List returns requests visible to the viewer: admins see all,
// everyone else only their own.
func (s *RequestServiceImpl) List(ctx context.Context, viewer string, filters primary.RequestFilters) ([]*primary.AssignmentRequest, error) {
	isAdmin, err := s.directory.IsAdmin(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to check permissions: %w", err)
	}

	repoFilters := secondary.RequestListFilters{Status: filters.Status}
	if !isAdmin || filters.Mine {
		repoFilters.RequestedBy = viewer
	}

	records, err := s.requests.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	out := make([]*primary.AssignmentRequest, len(records))
	for i, r := range records {
		out[i] = s.recordToRequest(r)
	}
	return out, nil
}

func (s *RequestServiceImpl) recordToRequest(r *secondary.RequestRecord) *primary.AssignmentRequest {
	return &primary.AssignmentRequest{
		ID:              r.ID,
		ItemType:        r.ItemType,
		ItemID:          r.ItemID,
		RequestedUser:   r.RequestedUser,
		RequestedBy:     r.RequestedBy,
		Reason:          r.Reason,
		Status:          r.Status,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
		DecisionNote:    r.DecisionNote,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}

func (s *RequestServiceImpl) note(ctx context.Context, entityType, entityID, author, body string) {
	if err := s.activity.Append(ctx, entityType, entityID, author, body); err != nil {
		log.Printf("warning: failed to record activity for %s %s: %v", entityType, entityID, err)
	}
}

func (s *RequestServiceImpl) send(ctx context.Context, userID, kind, message, requestID string) {
	err := s.notify.Notify(ctx, &secondary.NotificationRecord{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		RefType:   "request",
		RefID:     requestID,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("warning: failed to notify %s: %v", userID, err)
	}
}

// Ensure RequestServiceImpl implements the interface
var _ primary.RequestService = (*RequestServiceImpl)(nil)
