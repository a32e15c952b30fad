package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/services"
	"github.com/hossein5161/exam/internal/utils"
)

// AuthHandler owns the unauthenticated surface: registration, second-role
// requests, and the password reset flow.
type AuthHandler struct {
	BaseHandler
	userService  services.UserService
	resetService services.PasswordResetService
	notifier     services.NotificationService
}

func NewAuthHandler(userService services.UserService, resetService services.PasswordResetService, notifier services.NotificationService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  NewBaseHandler(logger),
		userService:  userService,
		resetService: resetService,
		notifier:     notifier,
	}
}

// Register creates a PENDING account awaiting admin approval.
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.UserRegistered(c.Request.Context(), user)
	c.JSON(http.StatusCreated, user)
}

// AddRole lets an existing user request an additional role by proving
// ownership of the account with their password.
func (h *AuthHandler) AddRole(c *gin.Context) {
	h.LogRequest(c, "Adding role to existing user")

	var req services.AddRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	user, err := h.userService.AddRoleToExistingUser(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	newRoles := user.RoleNames()
	oldRoles := make([]models.RoleName, 0, len(newRoles))
	if added, ok := models.ParseRoleName(req.Role); ok {
		for _, r := range newRoles {
			if r != added {
				oldRoles = append(oldRoles, r)
			}
		}
	}
	h.notifier.UserRolesChanged(c.Request.Context(), user, oldRoles, newRoles)
	c.JSON(http.StatusOK, user)
}

// ForgotPassword issues a reset code for the email. The response is always
// 202 so the endpoint cannot be used to probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	h.LogRequest(c, "Password reset requested")

	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	code, err := h.resetService.GenerateAndStore(c.Request.Context(), req.Email)
	if err != nil {
		h.LogError(c, err, "Failed to generate reset code")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	h.notifier.PasswordResetRequested(c.Request.Context(), req.Email, code)
	c.JSON(http.StatusAccepted, gin.H{"message": "reset code sent if the email is registered"})
}

// VerifyResetCode reports whether the code is currently valid for the email.
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	h.LogRequest(c, "Verifying reset code")

	var req services.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	valid, err := h.resetService.Validate(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.LogError(c, err, "Failed to validate reset code")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// ResetPassword consumes a valid code and replaces the account password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	h.LogRequest(c, "Resetting password")

	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.resetService.ConfirmReset(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.notifier.PasswordResetConfirmed(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
