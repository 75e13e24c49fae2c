package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "hireloop-api-service",
		})
	})

	authHandler := handler.NewAuthHandler(deps)
	companyHandler := handler.NewCompanyHandler(deps)
	jobHandler := handler.NewJobHandler(deps)
	paymentHandler := handler.NewPaymentHandler(deps)
	applicationHandler := handler.NewApplicationHandler(deps)
	uploadHandler := handler.NewUploadHandler(deps)
	adminHandler := handler.NewAdminHandler(deps)

	authed := RequireAuth(deps.Verifier, deps.Logger)

	v1 := r.Group("/api/v1")
	{
		// Public browsing
		v1.GET("/jobs", jobHandler.ListJobs)
		v1.GET("/jobs/:job_id", jobHandler.GetJob)
		v1.GET("/companies", companyHandler.ListCompanies)
		v1.GET("/companies/:company_id", companyHandler.GetCompany)

		authGroup := v1.Group("/auth", authed)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.GET("/me", authHandler.Me)
		}

		companies := v1.Group("/companies", authed, RequireRole(domain.RoleCompany))
		{
			companies.POST("", companyHandler.CreateCompany)
			companies.PUT("/:company_id", companyHandler.UpdateCompany)
			companies.POST("/:company_id/logo", companyHandler.UploadLogo)
		}

		companyJobs := v1.Group("/jobs", authed, RequireRole(domain.RoleCompany))
		{
			companyJobs.POST("", jobHandler.CreateDraft)
			companyJobs.PUT("/:job_id", jobHandler.UpdateJob)
			companyJobs.POST("/:job_id/close", jobHandler.CloseJob)
			companyJobs.GET("/:job_id/applications", applicationHandler.ListForJob)
		}

		payments := v1.Group("/payments", authed)
		{
			payments.POST("/order", paymentHandler.CreateOrder)
			payments.POST("/confirm-and-publish", RequireRole(domain.RoleCompany), paymentHandler.ConfirmAndPublish)
			payments.POST("/confirm-application", RequireRole(domain.RoleJobSeeker), paymentHandler.ConfirmApplication)
		}

		seeker := v1.Group("", authed, RequireRole(domain.RoleJobSeeker))
		{
			seeker.GET("/applications", applicationHandler.ListMine)
			seeker.POST("/jobs/:job_id/save", jobHandler.SaveJob)
			seeker.DELETE("/jobs/:job_id/save", jobHandler.UnsaveJob)
			seeker.GET("/saved-jobs", jobHandler.ListSavedJobs)
			seeker.POST("/uploads/resume", uploadHandler.UploadResume)
		}

		v1.PATCH("/applications/:application_id/status", authed, RequireRole(domain.RoleCompany), applicationHandler.UpdateStatus)

		admin := v1.Group("/admin", authed, RequireRole(domain.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:user_id/active", adminHandler.SetUserActive)
			admin.GET("/companies", adminHandler.ListCompanies)
			admin.GET("/jobs", adminHandler.ListJobs)
			admin.PATCH("/jobs/:job_id/status", adminHandler.SetJobStatus)
			admin.GET("/payments", adminHandler.ListPayments)
		}
	}

	return r
}
