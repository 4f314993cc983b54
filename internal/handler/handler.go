package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veaberji/Auth/internal/account"
	"github.com/Veaberji/Auth/internal/logger"
	"github.com/Veaberji/Auth/internal/middleware"
)

const loginPath = "/account/login"

// Handler exposes the account workflows over JSON. Rendering is glue only:
// every decision lives in the account service.
type Handler struct {
	service *account.Service
}

func NewHandler(service *account.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware) {
	r.POST("/account/register", h.Register)
	r.POST(loginPath, h.Login)
	r.POST("/account/logout", h.Logout)

	admin := r.Group("/accounts")
	admin.Use(middleware.GinBridge(auth.RequireAuth))
	admin.GET("", h.List)
	admin.POST("/ban", h.BanAll)
	admin.POST("/unban", h.UnbanAll)
	admin.POST("/delete", h.DeleteAll)

	for _, route := range r.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

// renderError maps the workflow error taxonomy onto responses, echoing the
// submitted input so a client can re-render the form. It never leaks
// internal errors: unknown failures get a generic surface.
func renderError(c *gin.Context, err error, input any) {
	var (
		validation account.ValidationErrors
		blocked    *account.BlockedError
		storeErr   *account.StoreError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"errors": validation,
			"input":  input,
		})
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"errors": gin.H{"login": []string{account.InvalidCredentialsMessage}},
			"input":  input,
		})
	case errors.As(err, &blocked):
		c.JSON(http.StatusForbidden, gin.H{
			"message": blocked.Error(),
			"input":   input,
		})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusConflict, gin.H{
			"errors": storeErr.Messages,
			"input":  input,
		})
	default:
		logger.Error("request failed", map[string]any{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
	}
}

// renderBulkError reports per-item failures of a batch that still completed.
func renderBulkError(c *gin.Context, err error) {
	var storeErr *account.StoreError
	if errors.As(err, &storeErr) {
		c.JSON(http.StatusOK, gin.H{
			"status": "completed_with_errors",
			"errors": storeErr.Messages,
		})
		return
	}
	renderError(c, err, nil)
}
