package handlers

import (
	"github.com/Bipul-Dubey/car-price-api/pricing-service/services"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"go.uber.org/zap"
)

type HandlerManager struct {
	PredictHandler *PredictHandler
	HealthHandler  *HealthHandler
}

func NewHandlerManager(sm *services.ServiceManager, m *metrics.Metrics, logger *zap.Logger) *HandlerManager {
	return &HandlerManager{
		PredictHandler: NewPredictHandler(sm.PredictService, m, logger),
		HealthHandler:  NewHealthHandler(sm.PredictService, sm.MetadataService, logger),
	}
}
