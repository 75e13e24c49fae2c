package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/internal/objectstore"
)

type companyStore interface {
	userGetter
	CreateCompany(ctx context.Context, company *model.Company) error
	GetCompanyByID(ctx context.Context, companyID string) (*model.Company, error)
	GetCompanyByOwner(ctx context.Context, ownerUserID string) (*model.Company, error)
	UpdateCompany(ctx context.Context, company *model.Company) error
	ListCompanies(ctx context.Context, limit, offset int) ([]model.Company, error)
}

// CompanyHandler handles company profile requests.
type CompanyHandler struct {
	logger      *slog.Logger
	store       companyStore
	objectStore objectstore.Store
}

func NewCompanyHandler(deps *Dependencies) *CompanyHandler {
	return &CompanyHandler{
		logger:      deps.Logger,
		store:       deps.Storage,
		objectStore: deps.ObjectStore,
	}
}

// CreateCompany handles POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	now := time.Now()
	company := model.Company{
		CompanyID:   uuid.New().String(),
		OwnerUserID: user.UserID,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		LogoURL:     req.LogoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateCompany(c.Request.Context(), &company); err != nil {
		respondDomainError(c, h.logger, err, "Failed to create company")
		return
	}

	c.JSON(http.StatusOK, toCompanyDTO(&company))
}

// GetCompany handles GET /api/v1/companies/:company_id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	companyID := c.Param("company_id")
	if _, err := uuid.Parse(companyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id must be a valid UUID"})
		return
	}

	company, err := h.store.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	c.JSON(http.StatusOK, toCompanyDTO(company))
}

// ListCompanies handles GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	companies, err := h.store.ListCompanies(c.Request.Context(), 100, 0)
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

// UpdateCompany handles PUT /api/v1/companies/:company_id
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	companyID := c.Param("company_id")
	company, err := h.store.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	if company.OwnerUserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this company"})
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	company.Name = req.Name
	company.Description = req.Description
	company.Website = req.Website
	company.Location = req.Location
	company.LogoURL = req.LogoURL

	if err := h.store.UpdateCompany(c.Request.Context(), company); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, toCompanyDTO(company))
}

// UploadLogo handles POST /api/v1/companies/:company_id/logo
func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	user, ok := currentUser(c, h.store, h.logger)
	if !ok {
		return
	}

	companyID := c.Param("company_id")
	company, err := h.store.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to get company")
		return
	}

	if company.OwnerUserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this company"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer file.Close()

	result, err := h.objectStore.Put(c.Request.Context(), file, objectstore.PutInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	})
	if err != nil {
		h.logger.Error("Failed to store logo", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	company.LogoURL = result.URL
	if err := h.store.UpdateCompany(c.Request.Context(), company); err != nil {
		respondDomainError(c, h.logger, err, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{URL: result.URL, Key: result.Key})
}
