package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// PredictRequest is the POST /predict body. Pointers make presence
// checkable so zero values like a 0 mileage still pass `required`.
type PredictRequest struct {
	Manufacturer      *string  `json:"Manufacturer" binding:"required"`
	Model             *string  `json:"Model" binding:"required"`
	FuelType          *string  `json:"Fuel type" binding:"required"`
	EngineSize        *float64 `json:"Engine size" binding:"required"`
	YearOfManufacture *int     `json:"Year of manufacture" binding:"required"`
	Mileage           *float64 `json:"Mileage" binding:"required"`
}

// DecodeError lists the request fields whose values could not be read.
type DecodeError struct {
	Fields []FieldError
}

func (e *DecodeError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid request fields: " + strings.Join(parts, "; ")
}

// UnmarshalJSON matches keys by their exact wire name. Absent and null
// fields stay nil and are left to `required`. Numbers sent as text are
// accepted, and the year may be any integral number.
func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DecodeError{Fields: []FieldError{{Field: "body", Message: "expected a JSON object"}}}
	}

	var fields []FieldError
	fail := func(name, msg string) {
		fields = append(fields, FieldError{Field: name, Message: msg})
	}

	for _, f := range []struct {
		name string
		dst  **string
	}{
		{FieldManufacturer, &r.Manufacturer},
		{FieldModel, &r.Model},
		{FieldFuelType, &r.FuelType},
	} {
		v, ok := present(raw, f.name)
		if !ok {
			continue
		}
		s, err := decodeText(v)
		if err != nil {
			fail(f.name, err.Error())
			continue
		}
		*f.dst = &s
	}

	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{FieldEngineSize, &r.EngineSize},
		{FieldMileage, &r.Mileage},
	} {
		v, ok := present(raw, f.name)
		if !ok {
			continue
		}
		n, err := decodeNumber(v)
		if err != nil {
			fail(f.name, err.Error())
			continue
		}
		*f.dst = &n
	}

	if v, ok := present(raw, FieldYearOfManufacture); ok {
		year, err := decodeInteger(v)
		if err != nil {
			fail(FieldYearOfManufacture, err.Error())
		} else {
			r.YearOfManufacture = &year
		}
	}

	if len(fields) > 0 {
		return &DecodeError{Fields: fields}
	}
	return nil
}

// Features converts a bound request. Call only after binding succeeded.
func (r *PredictRequest) Features() CarFeatures {
	return CarFeatures{
		Manufacturer:      *r.Manufacturer,
		Model:             *r.Model,
		FuelType:          *r.FuelType,
		EngineSize:        *r.EngineSize,
		YearOfManufacture: *r.YearOfManufacture,
		Mileage:           *r.Mileage,
	}
}

func present(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	v, ok := raw[name]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

type fieldValueError string

func (e fieldValueError) Error() string { return string(e) }

const (
	errNotText    = fieldValueError("value is not a valid string")
	errNotNumber  = fieldValueError("value is not a valid number")
	errNotInteger = fieldValueError("value is not a valid integer")
)

func decodeText(v json.RawMessage) (string, error) {
	var s string
	if len(v) == 0 || v[0] != '"' {
		return "", errNotText
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return "", errNotText
	}
	return s, nil
}

// decodeNumber accepts a JSON number or a string holding one.
func decodeNumber(v json.RawMessage) (float64, error) {
	text := string(v)
	if len(v) > 0 && v[0] == '"' {
		if err := json.Unmarshal(v, &text); err != nil {
			return 0, errNotNumber
		}
		text = strings.TrimSpace(text)
	}
	if text == "" || !(text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) || !json.Valid([]byte(text)) {
		return 0, errNotNumber
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, errNotNumber
	}
	return n, nil
}

// decodeInteger accepts any number without a fractional part, so 2018,
// 2018.0 and "2018" all read as 2018.
func decodeInteger(v json.RawMessage) (int, error) {
	n, err := decodeNumber(v)
	if err != nil || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, errNotInteger
	}
	return int(n), nil
}
