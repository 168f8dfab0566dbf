package handlers

import (
	"net/http"
	"time"

	"juspatria-backend/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the browser client served from origins to call the API
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RequestLogger logs one line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// RouterConfig lists what NewRouter wires
type RouterConfig struct {
	Interpretations *InterpretationHandler
	Files           *FileHandler
	CORSOrigins     []string
	Logger          *logger.Logger
}

// NewRouter builds the gin engine with every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}
	r.Use(CORS(cfg.CORSOrigins))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		h := cfg.Interpretations
		api.POST("/interpretations", h.Interpret)
		api.POST("/examples", h.GenerateExample)
		api.POST("/render", h.Render)

		api.GET("/history", h.ListHistory)
		api.GET("/history/:id", h.GetHistoryItem)
		api.GET("/history/:id/export", h.ExportHistoryItem)
		api.DELETE("/history", h.ClearHistory)

		if cfg.Files != nil {
			api.POST("/files/upload", cfg.Files.UploadFile)
			api.GET("/files/:id", cfg.Files.GetFile)
		}
	}

	return r
}
