package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/api/storage"
	"github.com/hireloop/hireloop-be/internal/auth"
	"github.com/hireloop/hireloop-be/internal/config"
	"github.com/hireloop/hireloop-be/internal/events"
	"github.com/hireloop/hireloop-be/internal/identity"
	"github.com/hireloop/hireloop-be/internal/objectstore"
	"github.com/hireloop/hireloop-be/internal/payments"
)

// Dependencies holds everything the handlers and middleware need.
type Dependencies struct {
	Logger       *slog.Logger
	Storage      *storage.Storage
	Verifier     *auth.Verifier
	RoleAssigner identity.RoleAssigner
	Gateway      payments.Gateway
	Signature    *payments.SignatureVerifier
	ObjectStore  objectstore.Store
	Events       EventFirer
	Payments     config.PaymentsConfig
}

// EventFirer publishes a domain event without failing the request.
type EventFirer interface {
	Fire(ctx context.Context, e *events.Event)
}

const principalKey = "principal"

// SetPrincipal stores the verified caller on the request context. The auth
// middleware is the only writer.
func SetPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the verified caller, or nil on unauthenticated routes.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, ok := v.(*auth.Principal)
	if !ok {
		return nil
	}
	return p
}

type userGetter interface {
	GetUserBySubject(ctx context.Context, subject string) (*model.User, error)
}

// currentUser resolves the caller's local user row. Responds 401 and returns
// false when the principal has no row yet (registration not done).
func currentUser(c *gin.Context, store userGetter, logger *slog.Logger) (*model.User, bool) {
	p := PrincipalFrom(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	user, err := store.GetUserBySubject(c.Request.Context(), p.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User is not registered"})
			return nil, false
		}
		logger.Error("Failed to load user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	if !user.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
		return nil, false
	}

	return user, true
}

// respondDomainError maps domain sentinels to HTTP statuses. Anything
// unrecognized logs the detail and answers with a generic 500.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyApplied):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have already applied for this job"})
	case errors.Is(err, domain.ErrPaymentAlreadyProcessed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already processed"})
	case errors.Is(err, domain.ErrAlreadySaved):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this resource"})
	default:
		logger.Error(action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// --- DTO mapping ---

func toUserDTO(u *model.User) dto.UserDTO {
	return dto.UserDTO{
		UserID: u.UserID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Active: u.Active,
	}
}

func toCompanyDTO(co *model.Company) dto.CompanyDTO {
	return dto.CompanyDTO{
		CompanyID:   co.CompanyID,
		Name:        co.Name,
		Description: co.Description,
		Website:     co.Website,
		Location:    co.Location,
		LogoURL:     co.LogoURL,
		CreatedAt:   co.CreatedAt.Format(time.RFC3339),
	}
}

func toJobDTO(job *model.JobPosting) dto.JobDTO {
	d := dto.JobDTO{
		JobID:        job.JobID,
		CompanyID:    job.CompanyID,
		Title:        job.Title,
		Description:  job.Description,
		Requirements: job.Requirements,
		Location:     job.Location,
		JobType:      job.JobType,
		SalaryRange:  job.SalaryRange,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339),
	}
	if job.ExpiresAt != nil {
		d.ExpiresAt = job.ExpiresAt.Format(time.RFC3339)
	}
	return d
}

func toApplicationDTO(app *model.JobApplication) dto.ApplicationDTO {
	return dto.ApplicationDTO{
		ApplicationID: app.ApplicationID,
		JobID:         app.JobID,
		JobSeekerID:   app.JobSeekerID,
		CoverLetter:   app.CoverLetter,
		ResumeURL:     app.ResumeURL,
		Status:        app.Status,
		AppliedAt:     app.AppliedAt.Format(time.RFC3339),
		UpdatedAt:     app.UpdatedAt.Format(time.RFC3339),
	}
}

func toPaymentDTO(pt *model.PaymentTransaction) dto.PaymentDTO {
	return dto.PaymentDTO{
		PaymentID:     pt.PaymentID,
		PaymentType:   pt.PaymentType,
		Gateway:       pt.Gateway,
		OrderID:       pt.OrderID,
		TransactionID: pt.TransactionID,
		Amount:        pt.Amount,
		Currency:      pt.Currency,
		Status:        pt.Status,
		CreatedAt:     pt.CreatedAt.Format(time.RFC3339),
	}
}
