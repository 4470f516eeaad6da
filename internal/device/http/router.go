package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth/middleware"
)

// Register mounts the device routes behind CORS and the shared API key.
func (h *Handler) Register(rg *gin.RouterGroup, apiKey string, allowedOrigins []string) {
	rg.Use(cors.New(corsConfig(allowedOrigins)))
	rg.Use(middleware.RequireAPIKey(apiKey))

	rg.GET("/prescriptions/:patientUID", h.GetByPatient)
	rg.GET("/cards/:cardID/prescription", h.GetByCard)
	// Preflights need a matching route for the group middleware to run.
	rg.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "X-API-Key", "X-Request-Id")
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
