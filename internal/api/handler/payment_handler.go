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
	"github.com/hireloop/hireloop-be/internal/config"
	"github.com/hireloop/hireloop-be/internal/events"
	"github.com/hireloop/hireloop-be/internal/payments"
)

type paymentStore interface {
	userGetter
	GetCompanyByOwner(ctx context.Context, ownerUserID string) (*model.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*model.Company, error)
	GetJobByID(ctx context.Context, jobID string) (*model.JobPosting, error)
	PaymentExists(ctx context.Context, transactionID string) (bool, error)
	HasApplied(ctx context.Context, jobID, jobSeekerID string) (bool, error)
	PublishJobWithPayment(ctx context.Context, job *model.JobPosting, payment *model.PaymentTransaction) error
	CreateApplicationWithPayment(ctx context.Context, app *model.JobApplication, payment *model.PaymentTransaction) error
}

type signatureChecker interface {
	Verify(orderID, paymentID, signature string) (bool, error)
}

// PaymentHandler handles gateway orders and payment confirmations. The
// confirmation endpoints are the only writers of PUBLISHED jobs and
// applications.
type PaymentHandler struct {
	logger    *slog.Logger
	store     paymentStore
	gateway   payments.Gateway
	signature signatureChecker
	events    EventFirer
	cfg       config.PaymentsConfig
}

func NewPaymentHandler(deps *Dependencies) *PaymentHandler {
	return &PaymentHandler{
		logger:    deps.Logger,
		store:     deps.Storage,
		gateway:   deps.Gateway,
		signature: deps.Signature,
		events:    deps.Events,
		cfg:       deps.Payments,
	}
}

// CreateOrder handles POST /api/v1/payments/order
// The amount comes from server-side config per purpose, never the client.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	if _, ok := currentUser(c, h.store, h.logger); !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var amount int64
	switch req.Purpose {
	case domain.PaymentTypeJobPosting:
		amount = h.cfg.JobPostingFee
	case domain.PaymentTypeApplicationFee:
		amount = h.cfg.ApplicationFee
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "purpose must be JOB_POSTING or APPLICATION_FEE"})
		return
	}

	order, err := h.gateway.CreateOrder(c.Request.Context(), amount, h.cfg.Currency, uuid.New().String())
	if err != nil {
		h.logger.Error("Failed to create gateway order", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    h.cfg.KeyID,
	})
}

// verifyProof runs signature verification. Missing fields and bad signatures
// answer the same 400 so the response leaks nothing about which check failed.
func (h *PaymentHandler) verifyProof(c *gin.Context, proof dto.PaymentProof) bool {
	ok, err := h.signature.Verify(proof.OrderID, proof.PaymentID, proof.Signature)
	if err != nil || !ok {
		if err != nil {
			h.logger.Warn("Payment verification rejected", slog.String("error", err.Error()))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
		return false
	}
	return true
}

// ConfirmAndPublish handles POST /api/v1/payments/confirm-and-publish
// Verifies the gateway signature, then publishes the job and records the
// payment in one database transaction.
func (h *PaymentHandler) ConfirmAndPublish(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	company, err := h.store.GetCompanyByOwner(c.Request.Context(), user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	var req dto.ConfirmAndPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !h.verifyProof(c, req.Payment) {
		return
	}

	exists, err := h.store.PaymentExists(c.Request.Context(), req.Payment.PaymentID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to check payment")
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already processed"})
		return
	}

	if !domain.ValidJobType(req.Job.JobType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job type"})
		return
	}

	job, err := jobFromInput(&req.Job, company.CompanyID, domain.JobStatusPublished)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC3339"})
		return
	}

	payment := &model.PaymentTransaction{
		PaymentID:     uuid.New().String(),
		CompanyID:     &company.CompanyID,
		JobPostingID:  &job.JobID,
		PaymentType:   domain.PaymentTypeJobPosting,
		Gateway:       h.gateway.Name(),
		OrderID:       req.Payment.OrderID,
		TransactionID: req.Payment.PaymentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        domain.PaymentStatusSuccess,
		CreatedAt:     time.Now(),
	}

	if err := h.store.PublishJobWithPayment(c.Request.Context(), job, payment); err != nil {
		respondDomainError(c, h.logger, err, "Failed to publish job")
		return
	}

	h.events.Fire(c.Request.Context(), &events.Event{
		Kind:            events.KindJobPublished,
		RecipientUserID: user.UserID,
		JobID:           job.JobID,
		JobTitle:        job.Title,
	})

	h.logger.Info("Job published",
		slog.String("job_id", job.JobID),
		slog.String("company_id", company.CompanyID),
		slog.Int64("amount", payment.Amount),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "job": toJobDTO(job)})
}

// ConfirmApplication handles POST /api/v1/payments/confirm-application
// Same shape as ConfirmAndPublish: verify, pre-check, one transaction.
func (h *PaymentHandler) ConfirmApplication(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	var req dto.ConfirmApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// An application without a resume is never accepted, paid or not.
	if req.ResumeURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resume is required"})
		return
	}

	if !h.verifyProof(c, req.Payment) {
		return
	}

	job, err := h.store.GetJobByID(c.Request.Context(), req.JobID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get job")
		return
	}
	if job.Status != domain.JobStatusPublished {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job is not open for applications"})
		return
	}

	applied, err := h.store.HasApplied(c.Request.Context(), job.JobID, user.UserID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to check application")
		return
	}
	if applied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already applied for this job"})
		return
	}

	exists, err := h.store.PaymentExists(c.Request.Context(), req.Payment.PaymentID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to check payment")
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already processed"})
		return
	}

	now := time.Now()
	app := &model.JobApplication{
		ApplicationID: uuid.New().String(),
		JobID:         job.JobID,
		JobSeekerID:   user.UserID,
		CoverLetter:   req.CoverLetter,
		ResumeURL:     req.ResumeURL,
		Status:        domain.ApplicationStatusApplied,
		AppliedAt:     now,
		UpdatedAt:     now,
	}

	payment := &model.PaymentTransaction{
		PaymentID:     uuid.New().String(),
		JobSeekerID:   &user.UserID,
		JobPostingID:  &job.JobID,
		ApplicationID: &app.ApplicationID,
		PaymentType:   domain.PaymentTypeApplicationFee,
		Gateway:       h.gateway.Name(),
		OrderID:       req.Payment.OrderID,
		TransactionID: req.Payment.PaymentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        domain.PaymentStatusSuccess,
		CreatedAt:     now,
	}

	if err := h.store.CreateApplicationWithPayment(c.Request.Context(), app, payment); err != nil {
		respondDomainError(c, h.logger, err, "Failed to create application")
		return
	}

	if company, err := h.store.GetCompanyByID(c.Request.Context(), job.CompanyID); err == nil {
		h.events.Fire(c.Request.Context(), &events.Event{
			Kind:            events.KindApplicationReceived,
			RecipientUserID: company.OwnerUserID,
			JobID:           job.JobID,
			JobTitle:        job.Title,
			ApplicationID:   app.ApplicationID,
		})
	}

	h.logger.Info("Application created",
		slog.String("application_id", app.ApplicationID),
		slog.String("job_id", job.JobID),
		slog.Int64("amount", payment.Amount),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "application": toApplicationDTO(app)})
}
