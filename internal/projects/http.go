package projects

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	catalog Catalog
	logger  *zap.Logger
}

func Register(rg *gin.RouterGroup, catalog Catalog, logger *zap.Logger) {
	h := &Handler{catalog: catalog, logger: logger}

	rg.GET("", h.list)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load projects."})
		return
	}
	c.JSON(http.StatusOK, items)
}
