package http

import "github.com/gin-gonic/gin"

// Register registers the contact routes. submitGuards run in front of the
// public submission endpoint, operatorAuth (when set) in front of listing
// and deletion.
func (h *Handler) Register(rg *gin.RouterGroup, submitGuards []gin.HandlerFunc, operatorAuth gin.HandlerFunc) {
	submit := make([]gin.HandlerFunc, 0, len(submitGuards)+1)
	submit = append(submit, submitGuards...)
	submit = append(submit, h.Submit)

	rg.GET("", h.Ping)
	rg.POST("", submit...)

	admin := rg.Group("")
	if operatorAuth != nil {
		admin.Use(operatorAuth)
	}
	admin.GET("/all", h.List)
	admin.DELETE("/:id", h.Delete)
}
