package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/fire_calls_analysis/internal/metrics"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.Use(RequestMetricsMiddleware())

	// Health-check доступен без ключа
	api.GET("/system/health", h.healthCheck)

	// Запросы набора
	queries := api.Group("/queries")
	if len(h.cfg.APIKeys) > 0 {
		queries.Use(APIKeyAuthMiddleware(h.cfg.APIKeys, h.logger))
	} else {
		h.logger.Warn("API_KEYS is empty, query routes are not protected")
	}
	{
		queries.GET("", h.listQueries)
		queries.GET("/:name", h.runQuery)
	}
}

// RequestMetricsMiddleware считает запросы по шаблону маршрута и коду ответа
func RequestMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
