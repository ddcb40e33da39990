package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/rota/internal/core/rotation"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// historyCap bounds the per-tracker assignment history.
const historyCap = 100

// TrackerServiceImpl implements the TrackerService interface. It owns
// the read-reconcile-advance-write cycle for each role tracker and
// serializes it with a per-role mutex so concurrent assignments never
// hand the same turn to two items.
type TrackerServiceImpl struct {
	trackerRepo secondary.TrackerRepository
	resolver    *EligibilityResolver
	clock       secondary.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTrackerService creates a new TrackerService with injected dependencies.
func NewTrackerService(trackerRepo secondary.TrackerRepository, resolver *EligibilityResolver, clock secondary.Clock) *TrackerServiceImpl {
	return &TrackerServiceImpl{
		trackerRepo: trackerRepo,
		resolver:    resolver,
		clock:       clock,
		locks:       make(map[string]*sync.Mutex),
	}
}

// roleLock returns the mutex serializing one role's tracker updates.
func (s *TrackerServiceImpl) roleLock(role string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[role]
	if !ok {
		l = &sync.Mutex{}
		s.locks[role] = l
	}
	return l
}

// PeekNext previews who would be assigned next without mutating state.
func (s *TrackerServiceImpl) PeekNext(ctx context.Context, role string) (string, *primary.TrackerStatus, error) {
	live, err := s.resolver.Resolve(ctx, role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve eligible users: %w", err)
	}
	if len(live) == 0 {
		return "", nil, fmt.Errorf("%w: %s", primary.ErrNoEligibleUsers, role)
	}

	record, err := s.trackerRepo.Get(ctx, role)
	if err != nil && err != secondary.ErrNotFound {
		return "", nil, fmt.Errorf("failed to load tracker: %w", err)
	}

	var roster []string
	var position int
	if record != nil {
		roster, position = rotation.Reconcile(record.UserList, record.CurrentPosition, live)
	} else {
		roster, position = live, 0
		record = &secondary.TrackerRecord{RoleName: role}
	}

	next, _ := rotation.Next(roster, position)
	status := s.recordToStatus(record)
	status.UserList = roster
	status.CurrentPosition = position
	status.NextUser = next
	status.TotalUsers = len(roster)
	return next, status, nil
}

// Advance performs the core rotation state transition.
func (s *TrackerServiceImpl) Advance(ctx context.Context, role string, item primary.AdvanceItem, assignedBy string) (string, error) {
	return s.advance(ctx, role, nil, item, assignedBy)
}

// AdvanceFromSubset rotates within the allowed subset of eligible users.
func (s *TrackerServiceImpl) AdvanceFromSubset(ctx context.Context, role string, subset []string, item primary.AdvanceItem, assignedBy string) (string, error) {
	if subset == nil {
		subset = []string{}
	}
	return s.advance(ctx, role, subset, item, assignedBy)
}

// advance is the shared transition. A nil subset means the whole
// eligible pool is allowed.
func (s *TrackerServiceImpl) advance(ctx context.Context, role string, subset []string, item primary.AdvanceItem, assignedBy string) (string, error) {
	lock := s.roleLock(role)
	lock.Lock()
	defer lock.Unlock()

	live, err := s.resolver.Resolve(ctx, role)
	if err != nil {
		return "", fmt.Errorf("failed to resolve eligible users: %w", err)
	}
	if len(live) == 0 {
		return "", fmt.Errorf("%w: %s", primary.ErrNoEligibleUsers, role)
	}

	record, created, err := s.getOrCreate(ctx, role, live)
	if err != nil {
		return "", err
	}

	roster := record.UserList
	position := record.CurrentPosition
	if !created {
		roster, position = rotation.Reconcile(record.UserList, record.CurrentPosition, live)
	}

	var user string
	var newPos int
	if subset == nil {
		user, newPos = rotation.Next(roster, position)
	} else {
		if len(subset) == 0 {
			return "", &primary.PoolExhaustedError{Role: role, Eligible: live}
		}
		user, newPos = rotation.NextFromSubset(roster, position, record.LastAssignedUser, subset)
		if user == "" {
			return "", &primary.PoolExhaustedError{Role: role, Eligible: live}
		}
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	record.UserList = roster
	record.CurrentPosition = newPos
	record.LastAssignedUser = user
	record.LastAssignedAt = now
	record.AssignmentCount++
	record.UpdatedAt = now
	record.History = append(record.History, secondary.TrackerHistoryEntry{
		User:       user,
		ItemType:   string(item.Type),
		ItemID:     item.ID,
		AssignedBy: assignedBy,
		AssignedAt: now,
		Position:   newPos,
	})
	if len(record.History) > historyCap {
		record.History = record.History[len(record.History)-historyCap:]
	}

	if err := s.trackerRepo.Save(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save tracker: %w", err)
	}
	return user, nil
}

// getOrCreate loads the tracker for a role, creating it lazily from
// the live eligible list on first use.
func (s *TrackerServiceImpl) getOrCreate(ctx context.Context, role string, live []string) (*secondary.TrackerRecord, bool, error) {
	record, err := s.trackerRepo.Get(ctx, role)
	if err == nil {
		return record, false, nil
	}
	if err != secondary.ErrNotFound {
		return nil, false, fmt.Errorf("failed to load tracker: %w", err)
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	record = &secondary.TrackerRecord{
		RoleName:        role,
		UserList:        live,
		CurrentPosition: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.trackerRepo.Create(ctx, record); err != nil {
		return nil, false, fmt.Errorf("failed to create tracker: %w", err)
	}
	return record, true, nil
}

// Status reports the persisted tracker state for a role.
func (s *TrackerServiceImpl) Status(ctx context.Context, role string) (*primary.TrackerStatus, error) {
	record, err := s.trackerRepo.Get(ctx, role)
	if err == secondary.ErrNotFound {
		return nil, fmt.Errorf("no tracker exists for role %q yet", role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker: %w", err)
	}

	status := s.recordToStatus(record)
	if len(record.UserList) > 0 {
		next, _ := rotation.Next(record.UserList, record.CurrentPosition)
		status.NextUser = next
	}
	return status, nil
}

// History returns the most recent assignment entries, newest first.
func (s *TrackerServiceImpl) History(ctx context.Context, role string, limit int) ([]primary.HistoryEntry, error) {
	record, err := s.trackerRepo.Get(ctx, role)
	if err == secondary.ErrNotFound {
		return nil, fmt.Errorf("no tracker exists for role %q yet", role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker: %w", err)
	}

	entries := record.History
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	// Stored oldest first; returned newest first.
	out := make([]primary.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		out = append(out, primary.HistoryEntry{
			User:       e.User,
			ItemType:   e.ItemType,
			ItemID:     e.ItemID,
			AssignedBy: e.AssignedBy,
			AssignedAt: e.AssignedAt,
			Position:   e.Position,
		})
	}
	return out, nil
}

// Reset sets the rotation position back to zero.
func (s *TrackerServiceImpl) Reset(ctx context.Context, role string) error {
	lock := s.roleLock(role)
	lock.Lock()
	defer lock.Unlock()

	if err := s.trackerRepo.Reset(ctx, role); err != nil {
		if err == secondary.ErrNotFound {
			return fmt.Errorf("no tracker exists for role %q yet", role)
		}
		return fmt.Errorf("failed to reset tracker: %w", err)
	}
	return nil
}

func (s *TrackerServiceImpl) recordToStatus(r *secondary.TrackerRecord) *primary.TrackerStatus {
	return &primary.TrackerStatus{
		RoleName:         r.RoleName,
		UserList:         r.UserList,
		CurrentPosition:  r.CurrentPosition,
		LastAssignedUser: r.LastAssignedUser,
		LastAssignedAt:   r.LastAssignedAt,
		AssignmentCount:  r.AssignmentCount,
		TotalUsers:       len(r.UserList),
	}
}

// Ensure TrackerServiceImpl implements the interface
var _ primary.TrackerService = (*TrackerServiceImpl)(nil)
