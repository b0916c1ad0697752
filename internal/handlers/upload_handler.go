package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	uploads.Use(middleware.AuthMiddleware())
	{
		uploads.POST("", h.UploadFile)
		uploads.GET("/my", h.ListMyUploads)
		uploads.DELETE("/:uploadId", h.DeleteUpload)
	}
}

func (h *UploadHandler) UploadFile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	fileType := c.PostForm("file_type")
	if fileType == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("file_type form field is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.uploadService.Upload(c.Request.Context(), userID, services.UploadInput{
		FileType:     fileType,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Reader:       file,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) ListMyUploads(c *gin.Context) {
	userID := middleware.GetUserID(c)

	uploads, err := h.uploadService.ListMine(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.uploadService.Delete(c.Request.Context(), userID, c.Param("uploadId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload deleted"})
}
