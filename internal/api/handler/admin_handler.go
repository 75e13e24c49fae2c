package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/api/storage"
)

type adminStore interface {
	ListUsers(ctx context.Context, role string, limit, offset int) ([]model.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	ListCompanies(ctx context.Context, limit, offset int) ([]model.Company, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.JobPosting, error)
	UpdateJobStatus(ctx context.Context, jobID, status string) error
	ListPayments(ctx context.Context, paymentType string, limit, offset int) ([]model.PaymentTransaction, error)
}

// AdminHandler handles the moderation surface. Role gating happens in the
// router middleware.
type AdminHandler struct {
	logger *slog.Logger
	store  adminStore
}

func NewAdminHandler(deps *Dependencies) *AdminHandler {
	return &AdminHandler{
		logger: deps.Logger,
		store:  deps.Storage,
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	limit, offset := clampPage(req.Limit, req.Offset)
	users, err := h.store.ListUsers(c.Request.Context(), req.Role, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list users")
		return
	}

	resp := dto.ListUsersResponse{Users: make([]dto.UserDTO, len(users))}
	for i := range users {
		resp.Users[i] = toUserDTO(&users[i])
	}

	c.JSON(http.StatusOK, resp)
}

// SetUserActive handles PATCH /api/v1/admin/users/:user_id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var req dto.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.Param("user_id")
	if err := h.store.SetUserActive(c.Request.Context(), userID, *req.Active); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update user")
		return
	}

	h.logger.Info("User active flag changed",
		slog.String("user_id", userID),
		slog.Bool("active", *req.Active),
	)

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "active": *req.Active})
}

// ListCompanies handles GET /api/v1/admin/companies
func (h *AdminHandler) ListCompanies(c *gin.Context) {
	companies, err := h.store.ListCompanies(c.Request.Context(), 200, 0)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list companies")
		return
	}

	resp := dto.ListCompaniesResponse{Companies: make([]dto.CompanyDTO, len(companies))}
	for i := range companies {
		resp.Companies[i] = toCompanyDTO(&companies[i])
	}

	c.JSON(http.StatusOK, resp)
}

// ListJobs handles GET /api/v1/admin/jobs
// Unlike the public listing, this sees every status.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 50
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), storage.JobFilter{
		CompanyID: req.CompanyID,
		JobType:   req.JobType,
		PageSize:  req.PageSize,
		Cursor:    cursor,
	})
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list jobs")
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	resp := dto.ListJobsResponse{Jobs: make([]dto.JobDTO, len(jobs))}
	for i := range jobs {
		resp.Jobs[i] = toJobDTO(&jobs[i])
	}

	if hasMore {
		last := jobs[len(jobs)-1]
		resp.NextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: last.CreatedAt,
			JobID:     last.JobID,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// SetJobStatus handles PATCH /api/v1/admin/jobs/:job_id/status
// Moderation override: an admin may close any posting.
func (h *AdminHandler) SetJobStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Status != domain.JobStatusPublished && req.Status != domain.JobStatusClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be PUBLISHED or CLOSED"})
		return
	}

	jobID := c.Param("job_id")
	if err := h.store.UpdateJobStatus(c.Request.Context(), jobID, req.Status); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update job status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": jobID, "status": req.Status})
}

// ListPayments handles GET /api/v1/admin/payments
func (h *AdminHandler) ListPayments(c *gin.Context) {
	var req dto.ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	limit, offset := clampPage(req.Limit, req.Offset)
	payments, err := h.store.ListPayments(c.Request.Context(), req.PaymentType, limit, offset)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list payments")
		return
	}

	resp := dto.ListPaymentsResponse{Payments: make([]dto.PaymentDTO, len(payments))}
	for i := range payments {
		resp.Payments[i] = toPaymentDTO(&payments[i])
	}

	c.JSON(http.StatusOK, resp)
}
