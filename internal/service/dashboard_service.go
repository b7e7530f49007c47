package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/repository"
)

const (
	employeeFeedCap    = 10
	feedSourceCap      = 5
	recentSampleSize   = 5
	upcomingTodoLimit  = 5
	recentDocLimit     = 3
	announcementLimit  = 3
	recentLoginSample  = 3
	pendingLeaveSample = 5
	adminMessageSample = 2
)

// EmployeeDashboard bundles everything the employee landing page shows.
type EmployeeDashboard struct {
	PendingLeaves   int
	UnreadMessages  int
	PendingTodos    int
	RecentLeaves    []domain.LeaveRequest
	RecentMessages  []domain.Message
	UpcomingTodos   []domain.Todo
	RecentDocuments []domain.Document
	AdminMessages   []domain.AdminMessage
	Announcements   []domain.Announcement
	Notifications   []domain.NotificationItem
	Today           time.Time
}

// AdminDashboard bundles the admin landing page counters and samples.
type AdminDashboard struct {
	EmployeeCount   int
	ActiveEmployees int
	PendingLeaves   int
	UnreadMessages  int
	RecentLeaves    []domain.LeaveRequest
	RecentMessages  []domain.AdminMessage
	RecentLogins    []domain.Employee
	Notifications   []domain.NotificationItem
	Today           time.Time
}

// DashboardService assembles landing pages and notification feeds from the
// per-concern repositories. Every source is fetched independently; a failing
// source is logged and skipped so the page degrades to a partial view
// instead of an error.
type DashboardService struct {
	employees     repository.EmployeeRepository
	leaves        repository.LeaveRepository
	messages      repository.MessageRepository
	adminMessages repository.AdminMessageRepository
	todos         repository.TodoRepository
	documents     repository.DocumentRepository
	announcements repository.AnnouncementRepository
	logger        *zap.Logger
	now           func() time.Time
}

// DashboardDependencies lists the repositories the dashboard reads from.
type DashboardDependencies struct {
	EmployeeRepo     repository.EmployeeRepository
	LeaveRepo        repository.LeaveRepository
	MessageRepo      repository.MessageRepository
	AdminMessageRepo repository.AdminMessageRepository
	TodoRepo         repository.TodoRepository
	DocumentRepo     repository.DocumentRepository
	AnnouncementRepo repository.AnnouncementRepository
}

// NewDashboardService builds the service.
func NewDashboardService(deps DashboardDependencies, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		employees:     deps.EmployeeRepo,
		leaves:        deps.LeaveRepo,
		messages:      deps.MessageRepo,
		adminMessages: deps.AdminMessageRepo,
		todos:         deps.TodoRepo,
		documents:     deps.DocumentRepo,
		announcements: deps.AnnouncementRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// BuildEmployeeFeed derives the employee notification feed: the newest
// unread messages and the newest decided leave requests, merged newest
// first and capped.
func (s *DashboardService) BuildEmployeeFeed(ctx context.Context, employeeID string) []domain.NotificationItem {
	var items []domain.NotificationItem

	unread, err := s.messages.ListUnreadByReceiver(ctx, employeeID, feedSourceCap)
	if err != nil {
		s.warn("notification feed: unread messages", employeeID, err)
	}
	for _, msg := range unread {
		items = append(items, domain.NotificationItem{
			Kind:    domain.NotificationKindMessage,
			Content: fmt.Sprintf("New message from %s: %s", msg.SenderName, msg.Subject),
			Time:    msg.CreatedAt,
			Link:    "/api/v1/employee/messages",
		})
	}

	resolved, err := s.leaves.ListResolvedByEmployee(ctx, employeeID, feedSourceCap)
	if err != nil {
		s.warn("notification feed: resolved leaves", employeeID, err)
	}
	for _, leave := range resolved {
		items = append(items, domain.NotificationItem{
			Kind:    domain.NotificationKindLeave,
			Content: fmt.Sprintf("Your leave request has been %s", leave.Status),
			Time:    leave.UpdatedAt,
			Link:    "/api/v1/employee/leave",
		})
	}

	sortFeed(items)
	if len(items) > employeeFeedCap {
		items = items[:employeeFeedCap]
	}
	return items
}

// BuildAdminFeed derives the admin notification feed: outstanding work
// counters plus a sample of recent employee logins. Counter items carry the
// current time; the feed has no overall cap.
func (s *DashboardService) BuildAdminFeed(ctx context.Context) []domain.NotificationItem {
	now := s.now()
	var items []domain.NotificationItem

	pending, err := s.leaves.CountPending(ctx)
	if err != nil {
		s.warn("notification feed: pending leave count", "", err)
	}
	if pending > 0 {
		items = append(items, domain.NotificationItem{
			Kind:    domain.NotificationKindLeave,
			Content: fmt.Sprintf("%d pending leave requests", pending),
			Time:    now,
			Link:    "/api/v1/admin/leave-requests",
		})
	}

	unread, err := s.adminMessages.CountUnread(ctx)
	if err != nil {
		s.warn("notification feed: unread admin messages", "", err)
	}
	if unread > 0 {
		items = append(items, domain.NotificationItem{
			Kind:    domain.NotificationKindMessage,
			Content: fmt.Sprintf("%d unread messages", unread),
			Time:    now,
			Link:    "/api/v1/admin/messages",
		})
	}

	logins, err := s.employees.ListRecentLogins(ctx, recentLoginSample)
	if err != nil {
		s.warn("notification feed: recent logins", "", err)
	}
	for _, employee := range logins {
		if employee.LastLogin == nil {
			continue
		}
		items = append(items, domain.NotificationItem{
			Kind:    domain.NotificationKindActivity,
			Content: fmt.Sprintf("%s logged in", employee.Name),
			Time:    *employee.LastLogin,
			Link:    "/api/v1/admin/employees",
		})
	}

	sortFeed(items)
	return items
}

// EmployeeHome assembles the employee dashboard.
func (s *DashboardService) EmployeeHome(ctx context.Context, employeeID string) *EmployeeDashboard {
	dashboard := &EmployeeDashboard{Today: s.now()}

	if count, err := s.leaves.CountPendingByEmployee(ctx, employeeID); err != nil {
		s.warn("dashboard: pending leave count", employeeID, err)
	} else {
		dashboard.PendingLeaves = count
	}
	if count, err := s.messages.CountUnreadByReceiver(ctx, employeeID); err != nil {
		s.warn("dashboard: unread message count", employeeID, err)
	} else {
		dashboard.UnreadMessages = count
	}
	if count, err := s.todos.CountPendingByEmployee(ctx, employeeID); err != nil {
		s.warn("dashboard: pending todo count", employeeID, err)
	} else {
		dashboard.PendingTodos = count
	}

	if leaves, err := s.leaves.ListRecentByEmployee(ctx, employeeID, recentSampleSize); err != nil {
		s.warn("dashboard: recent leaves", employeeID, err)
	} else {
		dashboard.RecentLeaves = leaves
	}
	if messages, err := s.messages.ListRecentByReceiver(ctx, employeeID, recentSampleSize); err != nil {
		s.warn("dashboard: recent messages", employeeID, err)
	} else {
		dashboard.RecentMessages = messages
	}
	if todos, err := s.todos.ListUpcomingByEmployee(ctx, employeeID, s.now(), upcomingTodoLimit); err != nil {
		s.warn("dashboard: upcoming todos", employeeID, err)
	} else {
		dashboard.UpcomingTodos = todos
	}
	if documents, err := s.documents.ListRecentByEmployee(ctx, employeeID, recentDocLimit); err != nil {
		s.warn("dashboard: recent documents", employeeID, err)
	} else {
		dashboard.RecentDocuments = documents
	}
	if adminMessages, err := s.adminMessages.ListRecentBySender(ctx, employeeID, adminMessageSample); err != nil {
		s.warn("dashboard: own admin messages", employeeID, err)
	} else {
		dashboard.AdminMessages = adminMessages
	}
	if announcements, err := s.announcements.ListActive(ctx, announcementLimit); err != nil {
		s.warn("dashboard: announcements", employeeID, err)
	} else {
		dashboard.Announcements = announcements
	}

	dashboard.Notifications = s.BuildEmployeeFeed(ctx, employeeID)
	return dashboard
}

// AdminHome assembles the admin dashboard.
func (s *DashboardService) AdminHome(ctx context.Context) *AdminDashboard {
	dashboard := &AdminDashboard{Today: s.now()}

	if count, err := s.employees.Count(ctx); err != nil {
		s.warn("dashboard: employee count", "", err)
	} else {
		dashboard.EmployeeCount = count
	}
	if count, err := s.employees.CountActive(ctx); err != nil {
		s.warn("dashboard: active employee count", "", err)
	} else {
		dashboard.ActiveEmployees = count
	}
	if count, err := s.leaves.CountPending(ctx); err != nil {
		s.warn("dashboard: pending leave count", "", err)
	} else {
		dashboard.PendingLeaves = count
	}
	if count, err := s.adminMessages.CountUnread(ctx); err != nil {
		s.warn("dashboard: unread admin messages", "", err)
	} else {
		dashboard.UnreadMessages = count
	}

	if leaves, err := s.leaves.ListPending(ctx, pendingLeaveSample); err != nil {
		s.warn("dashboard: pending leaves", "", err)
	} else {
		dashboard.RecentLeaves = leaves
	}
	if messages, err := s.adminMessages.ListRecent(ctx, recentSampleSize); err != nil {
		s.warn("dashboard: recent admin messages", "", err)
	} else {
		dashboard.RecentMessages = messages
	}
	if logins, err := s.employees.ListRecentLogins(ctx, recentLoginSample); err != nil {
		s.warn("dashboard: recent logins", "", err)
	} else {
		dashboard.RecentLogins = logins
	}

	dashboard.Notifications = s.BuildAdminFeed(ctx)
	return dashboard
}

// sortFeed orders items newest first, keeping insertion order for ties so
// counter items stay ahead of same-instant activity items.
func sortFeed(items []domain.NotificationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Time.After(items[j].Time)
	})
}

func (s *DashboardService) warn(source, employeeID string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if employeeID != "" {
		fields = append(fields, zap.String("employee_id", employeeID))
	}
	s.logger.Warn(source+" unavailable", fields...)
}
