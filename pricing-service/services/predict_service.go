package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/inference"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/repository"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"github.com/Bipul-Dubey/car-price-api/shared/middleware"
	"go.uber.org/zap"
)

var (
	// ErrModelNotLoaded is returned when no predictor was injected.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrInferenceFailed wraps every failure raised while scoring.
	ErrInferenceFailed = errors.New("inference failed")
)

type PredictService interface {
	Predict(ctx context.Context, features models.CarFeatures) (*models.PredictResponse, error)
	ModelLoaded() bool
}

type predictService struct {
	predictor      inference.Predictor
	predictionLogs repository.PredictionLogRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewPredictService wires the service. predictor may be nil, in which case
// every prediction fails with ErrModelNotLoaded; predictionLogs may be nil
// to disable the prediction log.
func NewPredictService(
	predictor inference.Predictor,
	predictionLogs repository.PredictionLogRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) PredictService {
	return &predictService{
		predictor:      predictor,
		predictionLogs: predictionLogs,
		metrics:        m,
		logger:         logger,
	}
}

func (s *predictService) ModelLoaded() bool {
	return s.predictor != nil
}

func (s *predictService) Predict(ctx context.Context, features models.CarFeatures) (*models.PredictResponse, error) {
	log := s.logger.With(zap.String("request_id", middleware.RequestIDFromContext(ctx)))
	log.Info("Prediction request received",
		zap.String("manufacturer", features.Manufacturer),
		zap.String("model", features.Model),
	)

	if s.predictor == nil {
		log.Error("Prediction attempted but model not loaded")
		s.metrics.RecordPrediction(metrics.OutcomeModelUnavailable, 0)
		return nil, ErrModelNotLoaded
	}

	derived := DeriveFeatures(features)
	record := BuildRecord(features, derived)

	start := time.Now()
	price, err := s.infer(ctx, record)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("Prediction failed",
			zap.String("manufacturer", features.Manufacturer),
			zap.String("model", features.Model),
			zap.Error(err),
		)
		s.metrics.RecordPrediction(metrics.OutcomeInferenceError, elapsed.Seconds())
		s.savePredictionLog(ctx, log, features, derived, nil, err, elapsed)
		return nil, err
	}

	log.Info("Prediction successful",
		zap.String("manufacturer", features.Manufacturer),
		zap.String("model", features.Model),
		zap.Float64("predicted_price_gbp", price),
		zap.Int("age", derived.Age),
		zap.Duration("inference_time", elapsed),
	)
	s.metrics.RecordPrediction(metrics.OutcomeSuccess, elapsed.Seconds())
	s.savePredictionLog(ctx, log, features, derived, &price, nil, elapsed)

	return &models.PredictResponse{PredictedPriceGBP: price}, nil
}

// infer calls the predictor and normalises every failure mode, including a
// panic inside the model and a non-finite score, into ErrInferenceFailed.
func (s *predictService) infer(ctx context.Context, record inference.Record) (price float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: model panicked: %v", ErrInferenceFailed, r)
		}
	}()

	price, err = s.predictor.Predict(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: model returned non-finite value %v", ErrInferenceFailed, price)
	}
	return price, nil
}

func (s *predictService) savePredictionLog(
	ctx context.Context,
	log *zap.Logger,
	features models.CarFeatures,
	derived DerivedFeatures,
	price *float64,
	predictErr error,
	elapsed time.Duration,
) {
	if s.predictionLogs == nil {
		return
	}

	entry := &models.PredictionLog{
		RequestID:         middleware.RequestIDFromContext(ctx),
		Manufacturer:      features.Manufacturer,
		Model:             features.Model,
		FuelType:          features.FuelType,
		EngineSize:        features.EngineSize,
		YearOfManufacture: features.YearOfManufacture,
		Mileage:           features.Mileage,
		Age:               derived.Age,
		MileagePerYear:    derived.MileagePerYear,
		Vintage:           derived.Vintage,
		PredictedPriceGBP: price,
		Status:            models.PredictionStatusSuccess,
		DurationMs:        float64(elapsed.Microseconds()) / 1000,
	}
	if predictErr != nil {
		entry.Status = models.PredictionStatusError
		entry.Error = predictErr.Error()
	}

	// The prediction log never changes the response.
	if err := s.predictionLogs.Save(context.WithoutCancel(ctx), entry); err != nil {
		log.Warn("Failed to save prediction log", zap.Error(err))
	}
}
