package remote

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the reference meal-service routes.
func NewRouter(handler *Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/hospitals", handler.ListHospitals)
	r.POST("/hospitals", handler.UpsertHospital)
	r.POST("/production", handler.CreateProductions)
	r.GET("/production", handler.ListProductions)
	r.GET("/auth/me", handler.Me)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("remote router initialized")
	}

	return r
}
