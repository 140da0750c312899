package handlers

import (
	"net/http"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const statusHealthy = "healthy"

type HealthHandler struct {
	predictService  services.PredictService
	metadataService services.MetadataService
	logger          *zap.Logger
}

func NewHealthHandler(predictService services.PredictService, metadataService services.MetadataService, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		predictService:  predictService,
		metadataService: metadataService,
		logger:          logger,
	}
}

// Health always answers 200; model_loaded tells whether predictions can be served.
func (h *HealthHandler) Health(c *gin.Context) {
	h.logger.Debug("Health check requested")
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      statusHealthy,
		ModelLoaded: h.predictService.ModelLoaded(),
	})
}

func (h *HealthHandler) Metadata(c *gin.Context) {
	h.logger.Debug("Metadata requested")
	c.JSON(http.StatusOK, h.metadataService.Describe())
}
