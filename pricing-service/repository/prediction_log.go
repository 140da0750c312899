package repository

import (
	"context"
	"fmt"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PredictionLogRepository interface {
	Migrate(ctx context.Context) error
	Save(ctx context.Context, entry *models.PredictionLog) error
}

type predictionLogRepository struct {
	db *gorm.DB
}

func NewPredictionLogRepository(db *gorm.DB) PredictionLogRepository {
	return &predictionLogRepository{db: db}
}

func (r *predictionLogRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.PredictionLog{}); err != nil {
		return fmt.Errorf("migrate prediction_logs: %w", err)
	}
	return nil
}

func (r *predictionLogRepository) Save(ctx context.Context, entry *models.PredictionLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert prediction log: %w", err)
	}
	return nil
}
