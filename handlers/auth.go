package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/webshop/backend/services"
)

// Context keys set by RequireAuth
const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
	ctxUsername = "username"
)

// AuthHandler serves the auth routes
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	if _, err := h.auth.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, services.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}
		c.JSON(statusFor(err), gin.H{"message": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	token, _, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(statusFor(err), gin.H{"message": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": token,
	})
}

// Me handles GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.UserByID(c.GetString(ctxUserID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(statusFor(err), gin.H{"message": "Error fetching user data"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /user/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	user, err := h.auth.UserByID(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			c.JSON(statusFor(err), gin.H{"message": "Error fetching user data"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Current and new password are required"})
		return
	}

	err := h.auth.ChangePassword(c.GetString(ctxUserID), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "New password must be at least 5 characters long"})
		case errors.Is(err, services.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Current password is incorrect"})
		default:
			c.JSON(statusFor(err), gin.H{"message": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// RequireAuth protects routes. It verifies the bearer token and stores the
// identity, role and username claims in the request context.
func (h *AuthHandler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := h.auth.ParseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// actorFrom builds the acting identity from the verified token claims
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		ID:   c.GetString(ctxUserID),
		Role: c.GetString(ctxUserRole),
	}
}
