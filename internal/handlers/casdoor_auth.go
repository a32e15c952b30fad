package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/hossein5161/exam/internal/config"
	"github.com/hossein5161/exam/internal/models"
	"github.com/hossein5161/exam/internal/repositories"
)

// CasdoorAuthMiddleware authenticates requests with Casdoor-issued JWTs and
// resolves the local account the token belongs to.
type CasdoorAuthMiddleware struct {
	client   *casdoorsdk.Client
	userRepo repositories.UserRepository
	config   config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, userRepo repositories.UserRepository) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:   client,
		userRepo: userRepo,
		config:   cfg,
	}
}

// AuthMiddleware validates the bearer token and loads the local user row.
// Accounts that are REJECTED cannot authenticate.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := cam.client.ParseJwtToken(tokenParts[1])
		if err != nil {
			abortUnauthorized(c, fmt.Sprintf("invalid token: %v", err))
			return
		}

		username := claims.User.Name
		if username == "" {
			abortUnauthorized(c, "token carries no username")
			return
		}

		user, err := cam.userRepo.GetByUsername(c.Request.Context(), username)
		if err != nil {
			abortUnauthorized(c, "no local account for token subject")
			return
		}
		if !user.IsActive() {
			abortUnauthorized(c, "account is rejected")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_roles", user.RoleNames())

		c.Next()
	}
}

// RequireRoleMiddleware allows the request through when the user holds any
// of the required roles. Admins pass every role check.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := GetUserRolesFromContext(c)
		if err != nil {
			abortForbidden(c, "user roles not found in context")
			return
		}

		for _, held := range roles {
			if held == models.RoleAdmin {
				c.Next()
				return
			}
			for _, required := range requiredRoles {
				if held == required {
					c.Next()
					return
				}
			}
		}

		abortForbidden(c, fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles))
	}
}

// RequireApprovedMiddleware blocks accounts still pending approval.
func (cam *CasdoorAuthMiddleware) RequireApprovedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil || user.Status != models.StatusApproved {
			abortForbidden(c, "account is not approved")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":   "forbidden",
		"message": message,
	})
	c.Abort()
}

// GetUserFromContext extracts the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}
	return userModel, nil
}

// GetUserIDFromContext extracts the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user ID type in context")
	}
	return id, nil
}

// GetUserRolesFromContext extracts the authenticated user's role set.
func GetUserRolesFromContext(c *gin.Context) ([]models.RoleName, error) {
	userRoles, exists := c.Get("user_roles")
	if !exists {
		return nil, fmt.Errorf("user roles not found in context")
	}

	roles, ok := userRoles.([]models.RoleName)
	if !ok {
		return nil, fmt.Errorf("invalid user roles type in context")
	}
	return roles, nil
}
