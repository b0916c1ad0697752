package handlers

import (
	"strconv"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/validator"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.runValidation(c, obj)
}

func (h *BaseHandler) BindAndValidateQuery(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.runValidation(c, obj)
}

func (h *BaseHandler) runValidation(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}

	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxWarn(ctx, "validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
	} else {
		logger.CtxWithError(ctx, "internal validator error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
	return false
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "service error",
			"error", appErr.Message,
			"code", appErr.Code,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
		return
	}

	logger.CtxWithError(ctx, "internal server error", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// QueryInt reads an integer query parameter, falling back on bad input.
func (h *BaseHandler) QueryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
