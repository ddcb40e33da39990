package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

// fixedClock implements secondary.Clock for deterministic tests.
type fixedClock struct {
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// mockUserDirectory implements secondary.UserDirectory for testing.
type mockUserDirectory struct {
	users map[string]*secondary.UserRecord
	roles map[string][]string
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{
		users: make(map[string]*secondary.UserRecord),
		roles: make(map[string][]string),
	}
}

func (m *mockUserDirectory) addUser(id string, enabled bool, roles ...string) {
	m.users[id] = &secondary.UserRecord{ID: id, FullName: id, Enabled: enabled}
	m.roles[id] = roles
}

func (m *mockUserDirectory) UsersWithRole(ctx context.Context, role string) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for id, roles := range m.roles {
		for _, r := range roles {
			if r == role {
				result = append(result, m.users[id])
				break
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserDirectory) GetUser(ctx context.Context, id string) (*secondary.UserRecord, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockUserDirectory) CreateUser(ctx context.Context, user *secondary.UserRecord) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserDirectory) SetEnabled(ctx context.Context, id string, enabled bool) error {
	u, ok := m.users[id]
	if !ok {
		return secondary.ErrNotFound
	}
	u.Enabled = enabled
	return nil
}

func (m *mockUserDirectory) GrantRole(ctx context.Context, id, role string) error {
	for _, r := range m.roles[id] {
		if r == role {
			return nil
		}
	}
	m.roles[id] = append(m.roles[id], role)
	return nil
}

func (m *mockUserDirectory) RevokeRole(ctx context.Context, id, role string) error {
	roles := m.roles[id]
	for i, r := range roles {
		if r == role {
			m.roles[id] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return secondary.ErrNotFound
}

func (m *mockUserDirectory) RolesOf(ctx context.Context, id string) ([]string, error) {
	if _, ok := m.users[id]; !ok {
		return nil, secondary.ErrNotFound
	}
	roles := append([]string{}, m.roles[id]...)
	sort.Strings(roles)
	return roles, nil
}

func (m *mockUserDirectory) ListUsers(ctx context.Context) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for id, u := range m.users {
		copied := *u
		copied.Roles = append([]string{}, m.roles[id]...)
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// mockTrackerRepository implements secondary.TrackerRepository for testing.
type mockTrackerRepository struct {
	trackers map[string]*secondary.TrackerRecord
	saveErr  error
}

func newMockTrackerRepository() *mockTrackerRepository {
	return &mockTrackerRepository{trackers: make(map[string]*secondary.TrackerRecord)}
}

func (m *mockTrackerRepository) Get(ctx context.Context, role string) (*secondary.TrackerRecord, error) {
	if t, ok := m.trackers[role]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockTrackerRepository) Create(ctx context.Context, tracker *secondary.TrackerRecord) error {
	copied := *tracker
	m.trackers[tracker.RoleName] = &copied
	return nil
}

func (m *mockTrackerRepository) Save(ctx context.Context, tracker *secondary.TrackerRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *tracker
	m.trackers[tracker.RoleName] = &copied
	return nil
}

func (m *mockTrackerRepository) Reset(ctx context.Context, role string) error {
	t, ok := m.trackers[role]
	if !ok {
		return secondary.ErrNotFound
	}
	t.CurrentPosition = 0
	return nil
}

// mockWorkItemRepository implements secondary.WorkItemRepository for testing.
type mockWorkItemRepository struct {
	items  map[string]*secondary.WorkItemRecord
	nextID map[models.ItemType]int
}

func newMockWorkItemRepository() *mockWorkItemRepository {
	return &mockWorkItemRepository{
		items:  make(map[string]*secondary.WorkItemRecord),
		nextID: map[models.ItemType]int{models.ItemTypeLead: 1, models.ItemTypeTicket: 1},
	}
}

func (m *mockWorkItemRepository) addItem(itemType models.ItemType, id, title string) *secondary.WorkItemRecord {
	item := &secondary.WorkItemRecord{Type: itemType, ID: id, Title: title, Status: models.ItemStatusOpen}
	m.items[id] = item
	return item
}

func (m *mockWorkItemRepository) Get(ctx context.Context, itemType models.ItemType, id string) (*secondary.WorkItemRecord, error) {
	if item, ok := m.items[id]; ok && item.Type == itemType {
		return item, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockWorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockWorkItemRepository) List(ctx context.Context, itemType models.ItemType) ([]*secondary.WorkItemRecord, error) {
	var result []*secondary.WorkItemRecord
	for _, item := range m.items {
		if item.Type == itemType {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockWorkItemRepository) SetAssignment(ctx context.Context, itemType models.ItemType, id, user, role string) error {
	item, ok := m.items[id]
	if !ok {
		return secondary.ErrNotFound
	}
	item.AssignedTo = user
	item.AssignedRole = role
	for _, a := range item.Assignees {
		if a == user {
			return nil
		}
	}
	item.Assignees = append(item.Assignees, user)
	return nil
}

func (m *mockWorkItemRepository) SetFinalOverdueTask(ctx context.Context, itemType models.ItemType, id, taskID string) error {
	item, ok := m.items[id]
	if !ok {
		return secondary.ErrNotFound
	}
	item.FinalOverdueTask = taskID
	return nil
}

func (m *mockWorkItemRepository) GetNextID(ctx context.Context, itemType models.ItemType) (string, error) {
	id := m.nextID[itemType]
	m.nextID[itemType] = id + 1
	return fmt.Sprintf("%s%03d", itemType.IDPrefix(), id), nil
}

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	tasks  map[string]*secondary.TaskRecord
	nextID int
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*secondary.TaskRecord), nextID: 1}
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockTaskRepository) FindOpenForItem(ctx context.Context, itemType models.ItemType, itemID string) (*secondary.TaskRecord, error) {
	var ids []string
	for id := range m.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := m.tasks[id]
		if t.ItemType == itemType && t.ItemID == itemID &&
			(t.Status == models.TaskStatusOpen || t.Status == models.TaskStatusInProgress) {
			return t, nil
		}
	}
	return nil, secondary.ErrNotFound
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockTaskRepository) UpdateAssignment(ctx context.Context, id, assignedTo string, assignees []string, dueAt string, processed bool) error {
	t, ok := m.tasks[id]
	if !ok {
		return secondary.ErrNotFound
	}
	t.AssignedTo = assignedTo
	t.Assignees = assignees
	t.DueAt = dueAt
	t.ReassignmentProcessed = processed
	return nil
}

func (m *mockTaskRepository) MarkFinalOverdue(ctx context.Context, id string) error {
	t, ok := m.tasks[id]
	if !ok {
		return secondary.ErrNotFound
	}
	t.FinalOverdue = true
	return nil
}

func (m *mockTaskRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*secondary.TaskRecord, error) {
	var result []*secondary.TaskRecord
	for _, t := range m.tasks {
		if t.FinalOverdue {
			continue
		}
		if t.Status != models.TaskStatusOpen && t.Status != models.TaskStatusInProgress {
			continue
		}
		due, err := time.Parse(time.RFC3339, t.DueAt)
		if err != nil {
			continue
		}
		if !due.After(cutoff) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueAt < result[j].DueAt })
	return result, nil
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskListFilters) ([]*secondary.TaskRecord, error) {
	var result []*secondary.TaskRecord
	for _, t := range m.tasks {
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.AssignedTo != "" && t.AssignedTo != filters.AssignedTo {
			continue
		}
		if filters.FinalOverdue != nil && t.FinalOverdue != *filters.FinalOverdue {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockTaskRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("TASK-%03d", id), nil
}

// mockRequestRepository implements secondary.RequestRepository for testing.
type mockRequestRepository struct {
	requests map[string]*secondary.RequestRecord
	nextID   int
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{requests: make(map[string]*secondary.RequestRecord), nextID: 1}
}

func (m *mockRequestRepository) Create(ctx context.Context, req *secondary.RequestRecord) error {
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, secondary.ErrNotFound
}

func (m *mockRequestRepository) Decide(ctx context.Context, id, status, decidedBy, decidedAt, note, rejectionReason string) error {
	r, ok := m.requests[id]
	if !ok {
		return secondary.ErrNotFound
	}
	r.Status = status
	r.DecidedBy = decidedBy
	r.DecidedAt = decidedAt
	r.DecisionNote = note
	r.RejectionReason = rejectionReason
	return nil
}

func (m *mockRequestRepository) List(ctx context.Context, filters secondary.RequestListFilters) ([]*secondary.RequestRecord, error) {
	var result []*secondary.RequestRecord
	for _, r := range m.requests {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.RequestedBy != "" && r.RequestedBy != filters.RequestedBy {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockRequestRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("REQ-%03d", id), nil
}

// mockActivityRepository implements secondary.ActivityRepository for testing.
type mockActivityRepository struct {
	records []*secondary.ActivityRecord
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{}
}

func (m *mockActivityRepository) Append(ctx context.Context, entityType, entityID, author, body string) error {
	m.records = append(m.records, &secondary.ActivityRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Author:     author,
		Body:       body,
	})
	return nil
}

func (m *mockActivityRepository) ListFor(ctx context.Context, entityType, entityID string) ([]*secondary.ActivityRecord, error) {
	var result []*secondary.ActivityRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.EntityType == entityType && r.EntityID == entityID {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockNotificationDispatcher implements secondary.NotificationDispatcher for testing.
type mockNotificationDispatcher struct {
	sent []*secondary.NotificationRecord
}

func newMockNotificationDispatcher() *mockNotificationDispatcher {
	return &mockNotificationDispatcher{}
}

func (m *mockNotificationDispatcher) Notify(ctx context.Context, n *secondary.NotificationRecord) error {
	m.sent = append(m.sent, n)
	return nil
}

func (m *mockNotificationDispatcher) ListFor(ctx context.Context, userID string, unreadOnly bool) ([]*secondary.NotificationRecord, error) {
	var result []*secondary.NotificationRecord
	for i := len(m.sent) - 1; i >= 0; i-- {
		n := m.sent[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

// sentTo returns the kinds of notifications sent to a user, in order.
func (m *mockNotificationDispatcher) sentTo(userID string) []string {
	var kinds []string
	for _, n := range m.sent {
		if n.UserID == userID {
			kinds = append(kinds, n.Kind)
		}
	}
	return kinds
}

// mockCalendarRepository implements secondary.CalendarRepository for testing.
type mockCalendarRepository struct {
	days     []*secondary.ServiceDayRecord
	holidays map[string]bool
	daysErr  error
}

func newMockCalendarRepository() *mockCalendarRepository {
	return &mockCalendarRepository{holidays: make(map[string]bool)}
}

func (m *mockCalendarRepository) allWeek(start, end string) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		m.days = append(m.days, &secondary.ServiceDayRecord{
			Weekday: d.String(), StartTime: start, EndTime: end, Open: true,
		})
	}
}

func (m *mockCalendarRepository) ServiceDays(ctx context.Context) ([]*secondary.ServiceDayRecord, error) {
	if m.daysErr != nil {
		return nil, m.daysErr
	}
	return m.days, nil
}

func (m *mockCalendarRepository) SetServiceDay(ctx context.Context, day *secondary.ServiceDayRecord) error {
	for i, d := range m.days {
		if d.Weekday == day.Weekday {
			m.days[i] = day
			return nil
		}
	}
	m.days = append(m.days, day)
	return nil
}

func (m *mockCalendarRepository) IsHoliday(ctx context.Context, day, calendar string) (bool, error) {
	return m.holidays[day], nil
}

func (m *mockCalendarRepository) AddHoliday(ctx context.Context, holiday *secondary.HolidayRecord) error {
	m.holidays[holiday.Day] = true
	return nil
}

func (m *mockCalendarRepository) Holidays(ctx context.Context, calendar string) ([]*secondary.HolidayRecord, error) {
	var result []*secondary.HolidayRecord
	var days []string
	for d := range m.holidays {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		result = append(result, &secondary.HolidayRecord{Day: d, Calendar: calendar})
	}
	return result, nil
}

// Interface checks
var (
	_ secondary.Clock                  = (*fixedClock)(nil)
	_ secondary.UserDirectory          = (*mockUserDirectory)(nil)
	_ secondary.TrackerRepository      = (*mockTrackerRepository)(nil)
	_ secondary.WorkItemRepository     = (*mockWorkItemRepository)(nil)
	_ secondary.TaskRepository         = (*mockTaskRepository)(nil)
	_ secondary.RequestRepository      = (*mockRequestRepository)(nil)
	_ secondary.ActivityRepository     = (*mockActivityRepository)(nil)
	_ secondary.NotificationDispatcher = (*mockNotificationDispatcher)(nil)
	_ secondary.CalendarRepository     = (*mockCalendarRepository)(nil)
)
