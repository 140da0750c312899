package services

import (
	"github.com/Bipul-Dubey/car-price-api/pricing-service/inference"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
)

// ReferenceYear anchors age so predictions do not drift with the clock.
const ReferenceYear = 2025

// VintageAge is the age in years from which a car counts as vintage.
const VintageAge = 20

// DerivedFeatures are computed per request from the raw inputs.
type DerivedFeatures struct {
	Age            int
	MileagePerYear float64
	Vintage        int
}

// DeriveFeatures computes age (floored at zero), mileage per year with the
// divisor floored at one, and the vintage flag.
func DeriveFeatures(f models.CarFeatures) DerivedFeatures {
	age := max(ReferenceYear-f.YearOfManufacture, 0)

	vintage := 0
	if age >= VintageAge {
		vintage = 1
	}

	return DerivedFeatures{
		Age:            age,
		MileagePerYear: f.Mileage / float64(max(age, 1)),
		Vintage:        vintage,
	}
}

// BuildRecord lays out the six raw inputs under their wire names plus the
// derived features.
func BuildRecord(f models.CarFeatures, d DerivedFeatures) inference.Record {
	r := inference.NewRecord()

	r.SetText(models.FieldManufacturer, f.Manufacturer)
	r.SetText(models.FieldModel, f.Model)
	r.SetText(models.FieldFuelType, f.FuelType)
	r.SetNumber(models.FieldEngineSize, f.EngineSize)
	r.SetNumber(models.FieldYearOfManufacture, float64(f.YearOfManufacture))
	r.SetNumber(models.FieldMileage, f.Mileage)

	r.SetNumber(models.FieldAge, float64(d.Age))
	r.SetNumber(models.FieldMileagePerYear, d.MileagePerYear)
	r.SetNumber(models.FieldVintage, float64(d.Vintage))

	return r
}
