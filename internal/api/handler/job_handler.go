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
	"github.com/hireloop/hireloop-be/internal/api/storage"
)

type jobStore interface {
	userGetter
	GetCompanyByOwner(ctx context.Context, ownerUserID string) (*model.Company, error)
	CreateJob(ctx context.Context, job *model.JobPosting) error
	GetJobByID(ctx context.Context, jobID string) (*model.JobPosting, error)
	UpdateJob(ctx context.Context, job *model.JobPosting) error
	UpdateJobStatus(ctx context.Context, jobID, status string) error
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.JobPosting, error)
	SaveJob(ctx context.Context, userID, jobID string) error
	UnsaveJob(ctx context.Context, userID, jobID string) error
	ListSavedJobs(ctx context.Context, userID string) ([]model.JobPosting, error)
}

// JobHandler handles job posting requests.
type JobHandler struct {
	logger *slog.Logger
	store  jobStore
}

func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		store:  deps.Storage,
	}
}

// jobFromInput builds a posting from the request body. Status is decided by
// the caller: drafts here, PUBLISHED only through a confirmed payment.
func jobFromInput(in *dto.JobInput, companyID, status string) (*model.JobPosting, error) {
	var expiresAt *time.Time
	if in.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, in.ExpiresAt)
		if err != nil {
			return nil, err
		}
		expiresAt = &t
	}

	now := time.Now()
	return &model.JobPosting{
		JobID:        uuid.New().String(),
		CompanyID:    companyID,
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		JobType:      in.JobType,
		SalaryRange:  in.SalaryRange,
		Status:       status,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CreateDraft handles POST /api/v1/jobs
// Drafts cost nothing; publishing goes through the payment confirmation flow.
func (h *JobHandler) CreateDraft(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	company, err := h.store.GetCompanyByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	var req dto.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !domain.ValidJobType(req.JobType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job type"})
		return
	}

	job, err := jobFromInput(&req, company.CompanyID, domain.JobStatusDraft)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
		return
	}

	if err := h.store.CreateJob(c.Request.Context(), job); err != nil {
		respondDomainError(c, h.logger, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Public listing: only PUBLISHED postings, keyset-paginated.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	filter := storage.JobFilter{
		CompanyID: req.CompanyID,
		JobType:   req.JobType,
		Location:  req.Location,
		Status:    domain.JobStatusPublished,
		Search:    req.Search,
		PageSize:  req.PageSize,
		Cursor:    cursor,
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), filter)
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

// ownedJob loads the posting and checks the caller's company owns it.
func (h *JobHandler) ownedJob(c *gin.Context, user *model.User) (*model.JobPosting, bool) {
	jobID := c.Param("job_id")
	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return nil, false
	}

	company, err := h.store.GetCompanyByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return nil, false
	}

	if job.CompanyID != company.CompanyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this job"})
		return nil, false
	}

	return job, true
}

// UpdateJob handles PUT /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	job, ok := h.ownedJob(c, user)
	if !ok {
		return
	}

	var req dto.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !domain.ValidJobType(req.JobType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job type"})
		return
	}

	updated, err := jobFromInput(&req, job.CompanyID, job.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
		return
	}
	updated.JobID = job.JobID
	updated.CreatedAt = job.CreatedAt

	if err := h.store.UpdateJob(c.Request.Context(), updated); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, toJobDTO(updated))
}

// CloseJob handles POST /api/v1/jobs/:job_id/close
func (h *JobHandler) CloseJob(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	job, ok := h.ownedJob(c, user)
	if !ok {
		return
	}

	if err := h.store.UpdateJobStatus(c.Request.Context(), job.JobID, domain.JobStatusClosed); err != nil {
		respondDomainError(c, h.logger, err, "Failed to close job")
		return
	}

	job.Status = domain.JobStatusClosed
	c.JSON(http.StatusOK, toJobDTO(job))
}

// SaveJob handles POST /api/v1/jobs/:job_id/save
func (h *JobHandler) SaveJob(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	if _, err := h.store.GetJobByID(c.Request.Context(), jobID); err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return
	}

	if err := h.store.SaveJob(c.Request.Context(), user.UserID, jobID); err != nil {
		respondDomainError(c, h.logger, err, "Failed to save job")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// UnsaveJob handles DELETE /api/v1/jobs/:job_id/save
func (h *JobHandler) UnsaveJob(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	if err := h.store.UnsaveJob(c.Request.Context(), user.UserID, c.Param("job_id")); err != nil {
		respondDomainError(c, h.logger, err, "Failed to unsave job")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": false})
}

// ListSavedJobs handles GET /api/v1/saved-jobs
func (h *JobHandler) ListSavedJobs(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	jobs, err := h.store.ListSavedJobs(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list saved jobs")
		return
	}

	resp := dto.ListJobsResponse{Jobs: make([]dto.JobDTO, len(jobs))}
	for i := range jobs {
		resp.Jobs[i] = toJobDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, resp)
}
