package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veaberji/Auth/internal/account"
)

func (h *Handler) Register(c *gin.Context) {
	var req account.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.service.Register(c.Request.Context(), req); err != nil {
		// never echo passwords back
		req.Password = ""
		req.ConfirmPassword = ""
		renderError(c, err, req)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "registered"})
}

func (h *Handler) Login(c *gin.Context) {
	var req account.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.service.Login(c.Request.Context(), c.Writer, c.Request, req)
	if err != nil {
		req.Password = ""
		renderError(c, err, req)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.Writer, c.Request); err != nil {
		renderError(c, err, nil)
		return
	}
	c.Redirect(http.StatusFound, loginPath)
}
