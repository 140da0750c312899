package handlers

import (
	"errors"
	"net/http"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/services"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"github.com/Bipul-Dubey/car-price-api/shared/middleware"
	sharedmodels "github.com/Bipul-Dubey/car-price-api/shared/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PredictHandler struct {
	predictService services.PredictService
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewPredictHandler(predictService services.PredictService, m *metrics.Metrics, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{
		predictService: predictService,
		metrics:        m,
		logger:         logger,
	}
}

// Predict validates the car attributes and returns the model's price estimate.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Rejected prediction request",
			zap.String("request_id", middleware.RequestIDFromContext(c.Request.Context())),
			zap.String("reason", err.Error()),
		)
		h.metrics.ValidationFailures.Inc()
		c.JSON(http.StatusUnprocessableEntity, sharedmodels.ErrorResponse(
			http.StatusUnprocessableEntity,
			"Invalid request data",
			bindingErrorDetails(err),
		))
		return
	}

	response, err := h.predictService.Predict(c.Request.Context(), req.Features())
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, services.ErrModelNotLoaded) {
			c.JSON(http.StatusServiceUnavailable, sharedmodels.ServiceUnavailable("Model not loaded"))
			return
		}
		c.JSON(http.StatusInternalServerError, sharedmodels.ErrorResponse(http.StatusInternalServerError, err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, response)
}
