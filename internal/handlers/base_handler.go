package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/services"
	"github.com/hossein5161/exam/internal/utils"
	"github.com/hossein5161/exam/internal/validator"
)

// ErrorResponse is the JSON shape of every error the API returns.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
	Courses []string    `json:"courses,omitempty"`
}

type BaseHandler struct {
	Logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{Logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c, h.Logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.FromContext(c, h.Logger).Error(msg, args...)
}

// handleServiceError translates service error kinds to HTTP responses.
// Typed payloads (field errors, blocking course titles) are carried through
// so clients can render actionable messages.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Fields:  validationErrs,
		})
		return
	}

	var policyErr *services.PasswordPolicyError
	if errors.As(err, &policyErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Password rejected by policy",
			Fields:  policyErr.Reasons,
		})
		return
	}

	var constraintErr *services.CourseConstraintError
	if errors.As(err, &constraintErr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Operation blocked by course assignments",
			Details: constraintErr.Error(),
			Courses: constraintErr.CourseTitles,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Resource conflict",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrPreconditionFailed):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Precondition failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrInvariantBlocked):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Operation blocked by domain invariant",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Operation not permitted",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// parseIDParam reads a numeric path parameter, responding 400 on garbage.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}
