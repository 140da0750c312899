package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/go-playground/validator/v10"
)

// JSONTagName makes validator report fields by their wire name, so errors
// read "Fuel type" rather than "FuelType".
func JSONTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// bindingErrorDetails turns a ShouldBindJSON error into per-field details.
func bindingErrorDetails(err error) []models.FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]models.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, models.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
		return details
	}

	var decodeErr *models.DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Fields
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []models.FieldError{{Field: "body", Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}}
	}

	if errors.Is(err, io.EOF) {
		return []models.FieldError{{Field: "body", Message: "request body is empty"}}
	}

	return []models.FieldError{{Field: "body", Message: err.Error()}}
}

func validationMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "field required"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
