package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maxelo/hr-portal/internal/auth"
	"github.com/maxelo/hr-portal/internal/service"
)

// DashboardHandler serves the role-specific landing pages and feeds.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// EmployeeHome handles GET /employee/dashboard.
func (h *DashboardHandler) EmployeeHome(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	dashboard := h.dashboards.EmployeeHome(c.UserContext(), principal.ID())

	return c.JSON(fiber.Map{"data": fiber.Map{
		"pending_leaves":   dashboard.PendingLeaves,
		"unread_messages":  dashboard.UnreadMessages,
		"pending_todos":    dashboard.PendingTodos,
		"recent_leaves":    dashboard.RecentLeaves,
		"recent_messages":  dashboard.RecentMessages,
		"upcoming_todos":   dashboard.UpcomingTodos,
		"recent_documents": dashboard.RecentDocuments,
		"admin_messages":   dashboard.AdminMessages,
		"announcements":    dashboard.Announcements,
		"notifications":    dashboard.Notifications,
		"today":            dashboard.Today,
	}})
}

// AdminHome handles GET /admin/dashboard.
func (h *DashboardHandler) AdminHome(c *fiber.Ctx) error {
	dashboard := h.dashboards.AdminHome(c.UserContext())

	return c.JSON(fiber.Map{"data": fiber.Map{
		"employee_count":   dashboard.EmployeeCount,
		"active_employees": dashboard.ActiveEmployees,
		"pending_leaves":   dashboard.PendingLeaves,
		"unread_messages":  dashboard.UnreadMessages,
		"recent_leaves":    dashboard.RecentLeaves,
		"recent_messages":  dashboard.RecentMessages,
		"recent_logins":    dashboard.RecentLogins,
		"notifications":    dashboard.Notifications,
		"today":            dashboard.Today,
	}})
}

// EmployeeNotifications handles GET /employee/notifications.
func (h *DashboardHandler) EmployeeNotifications(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	items := h.dashboards.BuildEmployeeFeed(c.UserContext(), principal.ID())
	return c.JSON(fiber.Map{"data": fiber.Map{"notifications": items}})
}

// AdminNotifications handles GET /admin/notifications.
func (h *DashboardHandler) AdminNotifications(c *fiber.Ctx) error {
	items := h.dashboards.BuildAdminFeed(c.UserContext())
	return c.JSON(fiber.Map{"data": fiber.Map{"notifications": items}})
}
