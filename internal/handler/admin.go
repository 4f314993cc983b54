package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type bulkRequest struct {
	IDs []string `json:"ids"`
}

type listedAccount struct {
	ID           string     `json:"id"`
	Login        string     `json:"login"`
	Email        string     `json:"email"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Banned       bool       `json:"banned"`
}

func (h *Handler) List(c *gin.Context) {
	listed, err := h.service.List(c.Request.Context())
	if err != nil {
		renderError(c, err, nil)
		return
	}

	out := make([]listedAccount, 0, len(listed))
	for _, l := range listed {
		out = append(out, listedAccount{
			ID:           l.Account.ID,
			Login:        l.Account.Login,
			Email:        l.Account.Email,
			RegisteredAt: l.Account.RegisteredAt,
			LastLoginAt:  l.Account.LastLoginAt,
			Banned:       l.Banned,
		})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (h *Handler) BanAll(c *gin.Context) {
	h.bulk(c, func(req bulkRequest) error {
		return h.service.BanAll(c.Request.Context(), req.IDs)
	})
}

func (h *Handler) UnbanAll(c *gin.Context) {
	h.bulk(c, func(req bulkRequest) error {
		return h.service.UnbanAll(c.Request.Context(), req.IDs)
	})
}

func (h *Handler) DeleteAll(c *gin.Context) {
	h.bulk(c, func(req bulkRequest) error {
		return h.service.DeleteAll(c.Request.Context(), c.Writer, c.Request, req.IDs)
	})
}

// bulk runs a best-effort batch operation. Partial failures come back as a
// 200 with the combined message list: the batch itself completed.
func (h *Handler) bulk(c *gin.Context, op func(req bulkRequest) error) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := op(req); err != nil {
		renderBulkError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
