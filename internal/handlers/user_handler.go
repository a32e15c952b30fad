package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
	"github.com/hossein5161/exam/internal/services"
	"github.com/hossein5161/exam/internal/utils"
)

// UserHandler exposes the admin user-management surface: approval workflow,
// role changes, guarded deletion, and exports.
type UserHandler struct {
	BaseHandler
	userService   services.UserService
	reportService services.ReportService
	notifier      services.NotificationService
}

func NewUserHandler(userService services.UserService, reportService services.ReportService, notifier services.NotificationService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger),
		userService:   userService,
		reportService: reportService,
		notifier:      notifier,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	h.LogRequest(c, "Searching users")

	filters := h.parseUserFilters(c)
	users, err := h.userService.Search(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *UserHandler) ListPendingUsers(c *gin.Context) {
	h.LogRequest(c, "Listing pending users")

	users, err := h.userService.ListPending(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting user", "user_id", id)

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating user", "user_id", id)

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, changes, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if changes.HasChanges() {
		h.notifier.UserUpdated(c.Request.Context(), user, changes)
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "changes": changes})
}

func (h *UserHandler) ApproveUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Approving user", "user_id", id)

	user, err := h.userService.Approve(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.UserApproved(c.Request.Context(), user)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) RejectUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Rejecting user", "user_id", id)

	var req services.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.UserRejected(c.Request.Context(), user, req.Reason)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangeUserRoles(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Changing user roles", "user_id", id)

	var req services.ChangeRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	before, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	oldRoles := before.RoleNames()

	user, err := h.userService.ChangeRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.UserRolesChanged(c.Request.Context(), user, oldRoles, user.RoleNames())
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	actingUserID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Deleting user", "target_id", id, "acting_user_id", actingUserID)

	target, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id, actingUserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.UserDeleted(c.Request.Context(), target)
	c.Status(http.StatusNoContent)
}

// ExportUsers streams the user list as an xlsx workbook.
func (h *UserHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting users")

	data, err := h.reportService.ExportUsers(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := repositories.UserFilters{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	if roleStr := c.Query("role"); roleStr != "" {
		if name, ok := models.ParseRoleName(roleStr); ok {
			filters.RoleName = name.ExternalName()
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.UserStatus(statusStr)
		filters.Status = &status
	}

	return filters
}
