package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.POST("/from-template/:template_id", h.createFromTemplate)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.PUT("/:id/files", h.saveFile)
	rg.POST("/:id/improve", h.improve)
	rg.POST("/:id/regenerate", h.regenerate)
	rg.POST("/:id/deploy", h.deploy)
	rg.GET("/:id/events", h.streamEvents)
	rg.GET("/:id/download", h.download)
}
