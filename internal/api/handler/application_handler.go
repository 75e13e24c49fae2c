package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/events"
)

type applicationStore interface {
	userGetter
	GetCompanyByOwner(ctx context.Context, ownerUserID string) (*model.Company, error)
	GetJobByID(ctx context.Context, jobID string) (*model.JobPosting, error)
	GetApplicationByID(ctx context.Context, applicationID string) (*model.JobApplication, error)
	ListApplicationsBySeeker(ctx context.Context, jobSeekerID string) ([]model.JobApplication, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]model.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, applicationID, status string) error
}

// ApplicationHandler handles application listing and status transitions.
// Creating applications is the payment handler's job.
type ApplicationHandler struct {
	logger *slog.Logger
	store  applicationStore
	events EventFirer
}

func NewApplicationHandler(deps *Dependencies) *ApplicationHandler {
	return &ApplicationHandler{
		logger: deps.Logger,
		store:  deps.Storage,
		events: deps.Events,
	}
}

// ListMine handles GET /api/v1/applications
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	apps, err := h.store.ListApplicationsBySeeker(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list applications")
		return
	}

	resp := dto.ListApplicationsResponse{Applications: make([]dto.ApplicationDTO, len(apps))}
	for i := range apps {
		resp.Applications[i] = toApplicationDTO(&apps[i])
	}

	c.JSON(http.StatusOK, resp)
}

// ListForJob handles GET /api/v1/jobs/:job_id/applications
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	job, err := h.store.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return
	}

	company, err := h.store.GetCompanyByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	if job.CompanyID != company.CompanyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this job"})
		return
	}

	apps, err := h.store.ListApplicationsByJob(c.Request.Context(), jobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to list applications")
		return
	}

	resp := dto.ListApplicationsResponse{Applications: make([]dto.ApplicationDTO, len(apps))}
	for i := range apps {
		resp.Applications[i] = toApplicationDTO(&apps[i])
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/v1/applications/:application_id/status
// Enforces the lifecycle: APPLIED can move to INTERVIEW or REJECTED, INTERVIEW
// to HIRED or REJECTED. Terminal states never change.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	app, err := h.store.GetApplicationByID(c.Request.Context(), c.Param("application_id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get application")
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), app.JobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return
	}

	company, err := h.store.GetCompanyByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	if job.CompanyID != company.CompanyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this job"})
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !domain.ValidApplicationTransition(app.Status, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
		return
	}

	if err := h.store.UpdateApplicationStatus(c.Request.Context(), app.ApplicationID, req.Status); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update application status")
		return
	}

	app.Status = req.Status

	h.events.Fire(c.Request.Context(), &events.Event{
		Kind:            events.KindApplicationUpdated,
		RecipientUserID: app.JobSeekerID,
		JobID:           job.JobID,
		JobTitle:        job.Title,
		ApplicationID:   app.ApplicationID,
		Status:          app.Status,
	})

	c.JSON(http.StatusOK, toApplicationDTO(app))
}
