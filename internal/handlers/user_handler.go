package handlers

import (
	"net/http"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
	}

	// Candidate access consumes the employer's view/download quota.
	candidates := rg.Group("/candidates")
	candidates.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleEmployerAdmin))
	{
		candidates.GET("/:candidateId", h.ViewCandidate)
		candidates.GET("/:candidateId/resume", h.DownloadResume)
	}

	employers := rg.Group("/employers")
	employers.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer))
	{
		employers.POST("/admins", h.CreateEmployerAdmin)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/users", h.ListUsers)
		admin.POST("/employers/:userId/approve", h.ApproveEmployer)
		admin.POST("/employers/:userId/reject", h.RejectEmployer)
		admin.POST("/users/:userId/block", h.SetBlocked)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	resp, err := h.userService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	resp, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ViewCandidate(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	candidateID := c.Param("candidateId")

	resp, err := h.userService.ViewCandidate(c.Request.Context(), viewerID, candidateID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) DownloadResume(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	candidateID := c.Param("candidateId")

	url, err := h.userService.DownloadResume(c.Request.Context(), viewerID, candidateID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *UserHandler) CreateEmployerAdmin(c *gin.Context) {
	var req dto.CreateEmployerAdminRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	employerID := middleware.GetUserID(c)
	resp, err := h.userService.CreateEmployerAdmin(c.Request.Context(), employerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	users, meta, err := h.userService.ListByRole(&query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "meta": meta})
}

func (h *UserHandler) ApproveEmployer(c *gin.Context) {
	if err := h.userService.ApproveEmployer(c.Request.Context(), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employer approved"})
}

func (h *UserHandler) RejectEmployer(c *gin.Context) {
	if err := h.userService.RejectEmployer(c.Request.Context(), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employer rejected"})
}

func (h *UserHandler) SetBlocked(c *gin.Context) {
	var req dto.BlockRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.userService.SetBlocked(c.Request.Context(), c.Param("userId"), req.Blocked); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User block status updated"})
}
