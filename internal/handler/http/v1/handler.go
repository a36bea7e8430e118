package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/shenikar/fire_calls_analysis/internal/query"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/table"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	analysisService service.AnalysisService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(analysisService service.AnalysisService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		analysisService: analysisService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary List queries
// @Description Get names and titles of all queries in output order. Requires API key.
// @Tags Queries
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} QueryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /queries [get]
func (h *Handler) listQueries(c *gin.Context) {
	c.JSON(http.StatusOK, ModelsToQueryResponses(h.analysisService.Queries()))
}

// @Summary Run a query
// @Description Run a single query over the loaded incident table. Parameters default to the server configuration. Requires API key.
// @Tags Queries
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "Query name"
// @Param year query int false "Calendar year for weekly-calls and neighborhood-delays"
// @Param threshold query number false "Delay threshold in minutes for response-delays"
// @Param zip query []int false "Zip codes for zip-neighborhoods" collectionFormat(multi)
// @Param limit query int false "Maximum number of rows in the response"
// @Success 200 {object} ResultResponse
// @Failure 400 {object} map[string]string "Invalid parameters or incompatible table"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Query not found"
// @Failure 503 {object} map[string]string "Table is not loaded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /queries/{name} [get]
func (h *Handler) runQuery(c *gin.Context) {
	name := c.Param("name")
	log := h.logger.WithField("method", "runQuery").WithField("query", name)

	var input RunQueryRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		log.WithError(err).Warn("Failed to bind query parameters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := DTOToParams(input, h.defaultParams())
	result, err := h.analysisService.Run(c.Request.Context(), name, params)
	if err != nil {
		status, msg := errorStatus(err)
		if status == http.StatusInternalServerError {
			log.WithError(err).Error("Failed to run query in service")
		} else {
			log.WithError(err).Warn("Query rejected")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, ModelToResultResponse(result, input.Limit))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) defaultParams() query.Params {
	return query.Params{
		Year:           h.cfg.FilterYear,
		DelayThreshold: h.cfg.DelayThreshold,
		ZipCodes:       h.cfg.ZipCodes,
	}
}

// errorStatus сопоставляет ошибку сервиса с HTTP-статусом
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownQuery):
		return http.StatusNotFound, "query not found"
	case errors.Is(err, service.ErrInvalidParams):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotPrepared):
		return http.StatusServiceUnavailable, "table is not loaded"
	case errors.Is(err, table.ErrMissingColumn), errors.Is(err, table.ErrColumnType):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
