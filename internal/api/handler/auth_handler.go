package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/identity"
)

type authStore interface {
	userGetter
	UpsertUser(ctx context.Context, user *model.User) error
}

// AuthHandler handles registration and profile lookups.
type AuthHandler struct {
	logger       *slog.Logger
	store        authStore
	roleAssigner identity.RoleAssigner
}

func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger:       deps.Logger,
		store:        deps.Storage,
		roleAssigner: deps.RoleAssigner,
	}
}

// Register handles POST /api/v1/auth/register.
// Creates or refreshes the local user row and assigns the chosen role at the
// identity provider. The assigner waits out token propagation before returning
// so the client's next token refresh already carries the role.
func (h *AuthHandler) Register(c *gin.Context) {
	p := PrincipalFrom(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Role != domain.RoleCompany && req.Role != domain.RoleJobSeeker {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be COMPANY or JOB_SEEKER"})
		return
	}

	now := time.Now()
	user := model.User{
		UserID:      uuid.New().String(),
		AuthSubject: p.Subject,
		Email:       p.Email,
		Name:        req.Name,
		Role:        req.Role,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.UpsertUser(c.Request.Context(), &user); err != nil {
		h.logger.Error("Failed to upsert user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.roleAssigner.AssignRole(c.Request.Context(), p.Subject, req.Role); err != nil {
		h.logger.Error("Failed to assign role",
			slog.String("subject", p.Subject),
			slog.String("role", req.Role),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Re-read so a repeat registration returns the original user_id.
	stored, err := h.store.GetUserBySubject(c.Request.Context(), p.Subject)
	if err != nil {
		h.logger.Error("Failed to load user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, toUserDTO(stored))
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toUserDTO(user))
}
