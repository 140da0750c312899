package services

import (
	"github.com/Bipul-Dubey/car-price-api/pricing-service/inference"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/repository"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"go.uber.org/zap"
)

type ServiceManager struct {
	PredictService  PredictService
	MetadataService MetadataService
}

func NewServiceManager(
	predictor inference.Predictor,
	predictionLogs repository.PredictionLogRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ServiceManager {
	return &ServiceManager{
		PredictService:  NewPredictService(predictor, predictionLogs, m, logger),
		MetadataService: NewMetadataService(),
	}
}
