package services

import "github.com/Bipul-Dubey/car-price-api/pricing-service/models"

// Static descriptor of the served model. Maintained by hand alongside the
// artifact, not read from it.
const (
	metadataModelName   = "XGBoost Car Price Predictor"
	metadataVersion     = "1.0.0"
	metadataLastUpdated = "2024-10-12"
	metadataTarget      = "price (GBP)"
)

type MetadataService interface {
	Describe() models.MetadataResponse
}

type metadataService struct{}

func NewMetadataService() MetadataService {
	return &metadataService{}
}

func (s *metadataService) Describe() models.MetadataResponse {
	return models.MetadataResponse{
		ModelName:   metadataModelName,
		Version:     metadataVersion,
		LastUpdated: metadataLastUpdated,
		Features: []string{
			models.FieldManufacturer,
			models.FieldModel,
			models.FieldFuelType,
			models.FieldEngineSize,
			models.FieldYearOfManufacture,
			models.FieldMileage,
		},
		DerivedFeatures: []string{
			models.FieldAge,
			models.FieldMileagePerYear,
			models.FieldVintage,
		},
		Target: metadataTarget,
	}
}
