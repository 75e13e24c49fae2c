package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-be/internal/api/dto"
	"github.com/hireloop/hireloop-be/internal/objectstore"
)

// Resume uploads are capped at 5 MiB.
const maxResumeSize = 5 << 20

var allowedResumeExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// UploadHandler handles resume uploads to the object store.
type UploadHandler struct {
	logger      *slog.Logger
	store       userGetter
	objectStore objectstore.Store
}

func NewUploadHandler(deps *Dependencies) *UploadHandler {
	return &UploadHandler{
		logger:      deps.Logger,
		store:       deps.Storage,
		objectStore: deps.ObjectStore,
	}
}

// UploadResume handles POST /api/v1/uploads/resume
// The returned URL is what the client sends in confirm-application.
func (h *UploadHandler) UploadResume(c *gin.Context) {
	if _, ok := currentUser(c, h.store, h.logger); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if fileHeader.Size > maxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 5MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedResumeExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and Word documents are accepted"})
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
		h.logger.Error("Failed to store resume", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{URL: result.URL, Key: result.Key})
}
