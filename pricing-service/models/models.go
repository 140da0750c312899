package models

import (
	"time"

	"github.com/google/uuid"
)

// Wire names of the raw features. They double as the record keys handed to
// the model.
const (
	FieldManufacturer      = "Manufacturer"
	FieldModel             = "Model"
	FieldFuelType          = "Fuel type"
	FieldEngineSize        = "Engine size"
	FieldYearOfManufacture = "Year of manufacture"
	FieldMileage           = "Mileage"
)

// Derived feature names.
const (
	FieldAge            = "age"
	FieldMileagePerYear = "mileage_per_year"
	FieldVintage        = "vintage"
)

// CarFeatures is a validated prediction input.
type CarFeatures struct {
	Manufacturer      string
	Model             string
	FuelType          string
	EngineSize        float64
	YearOfManufacture int
	Mileage           float64
}

type PredictResponse struct {
	PredictedPriceGBP float64 `json:"predicted_price_gbp"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type MetadataResponse struct {
	ModelName       string   `json:"model_name"`
	Version         string   `json:"version"`
	LastUpdated     string   `json:"last_updated"`
	Features        []string `json:"features"`
	DerivedFeatures []string `json:"derived_features"`
	Target          string   `json:"target"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Prediction log statuses.
const (
	PredictionStatusSuccess = "success"
	PredictionStatusError   = "error"
)

// ===============================
// PredictionLog
// ===============================
type PredictionLog struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID         string    `gorm:"type:varchar(64);index"`
	Manufacturer      string    `gorm:"type:varchar(255);not null"`
	Model             string    `gorm:"type:varchar(255);not null"`
	FuelType          string    `gorm:"type:varchar(64);not null"`
	EngineSize        float64   `gorm:"not null"`
	YearOfManufacture int       `gorm:"not null"`
	Mileage           float64   `gorm:"not null"`
	Age               int       `gorm:"not null"`
	MileagePerYear    float64   `gorm:"not null"`
	Vintage           int       `gorm:"not null"`
	PredictedPriceGBP *float64
	Status            string    `gorm:"type:varchar(20);not null;index"` // success / error
	Error             string    `gorm:"type:text"`
	DurationMs        float64
	CreatedAt         time.Time `gorm:"default:now()"`
}
