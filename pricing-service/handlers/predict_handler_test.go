package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bipul-Dubey/car-price-api/pricing-service/models"
	"github.com/Bipul-Dubey/car-price-api/pricing-service/services"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	sharedmodels "github.com/Bipul-Dubey/car-price-api/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(JSONTagName)
	}
}

type fakePredictService struct {
	loaded bool
	price  float64
	err    error
	calls  []models.CarFeatures
}

func (f *fakePredictService) Predict(_ context.Context, features models.CarFeatures) (*models.PredictResponse, error) {
	f.calls = append(f.calls, features)
	if f.err != nil {
		return nil, f.err
	}
	return &models.PredictResponse{PredictedPriceGBP: f.price}, nil
}

func (f *fakePredictService) ModelLoaded() bool {
	return f.loaded
}

func newPredictEngine(svc services.PredictService, m *metrics.Metrics) *gin.Engine {
	h := NewPredictHandler(svc, m, zap.NewNop())
	r := gin.New()
	r.POST("/predict", h.Predict)
	return r
}

func postJSON(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"Manufacturer": "Toyota",
	"Model": "Corolla",
	"Fuel type": "Petrol",
	"Engine size": 1.8,
	"Year of manufacture": 2018,
	"Mileage": 45000
}`

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (sharedmodels.GenericResponse, []models.FieldError) {
	t.Helper()

	var raw struct {
		sharedmodels.GenericResponse
		Data []models.FieldError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	return raw.GenericResponse, raw.Data
}

func TestPredictHandler_Success(t *testing.T) {
	svc := &fakePredictService{loaded: true, price: 15000}
	r := newPredictEngine(svc, metrics.New(prometheus.NewRegistry()))

	rec := postJSON(r, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"predicted_price_gbp": 15000.0}`, rec.Body.String())

	require.Len(t, svc.calls, 1)
	assert.Equal(t, models.CarFeatures{
		Manufacturer:      "Toyota",
		Model:             "Corolla",
		FuelType:          "Petrol",
		EngineSize:        1.8,
		YearOfManufacture: 2018,
		Mileage:           45000,
	}, svc.calls[0])
}

func TestPredictHandler_ZeroValuesAreAccepted(t *testing.T) {
	svc := &fakePredictService{loaded: true, price: 30000}
	r := newPredictEngine(svc, metrics.New(prometheus.NewRegistry()))

	rec := postJSON(r, `{"Manufacturer":"","Model":"","Fuel type":"Electric","Engine size":0,"Year of manufacture":2025,"Mileage":0}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.calls, 1)
	assert.Zero(t, svc.calls[0].Mileage)
}

func TestPredictHandler_IgnoresUnknownFields(t *testing.T) {
	svc := &fakePredictService{loaded: true, price: 1}
	r := newPredictEngine(svc, metrics.New(prometheus.NewRegistry()))

	rec := postJSON(r, `{"Manufacturer":"VW","Model":"Golf","Fuel type":"Diesel","Engine size":2.0,"Year of manufacture":2015,"Mileage":90000,"Colour":"Blue"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredictHandler_AcceptsNumericText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "numbers as text",
			body: `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":"1.8","Year of manufacture":"2018","Mileage":" 45000 "}`,
		},
		{
			name: "integral float year",
			body: `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":2018.0,"Mileage":45000}`,
		},
		{
			name: "integral float year as text",
			body: `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":"2018.0","Mileage":4.5e4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePredictService{loaded: true, price: 15000}
			r := newPredictEngine(svc, metrics.New(prometheus.NewRegistry()))

			rec := postJSON(r, tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Len(t, svc.calls, 1)
			assert.Equal(t, models.CarFeatures{
				Manufacturer:      "Toyota",
				Model:             "Corolla",
				FuelType:          "Petrol",
				EngineSize:        1.8,
				YearOfManufacture: 2018,
				Mileage:           45000,
			}, svc.calls[0])
		})
	}
}

func TestPredictHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name:       "only manufacturer",
			body:       `{"Manufacturer": "Toyota"}`,
			wantFields: []string{"Model", "Fuel type", "Engine size", "Year of manufacture", "Mileage"},
		},
		{
			name:       "internal field name instead of alias",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel_type":"Petrol","Engine size":1.8,"Year of manufacture":2018,"Mileage":45000}`,
			wantFields: []string{"Fuel type"},
		},
		{
			name:       "keys in the wrong case",
			body:       `{"manufacturer":"Toyota","MODEL":"Corolla","fuel TYPE":"Petrol","engine size":1.8,"year of manufacture":2018,"mileage":45000}`,
			wantFields: []string{"Manufacturer", "Model", "Fuel type", "Engine size", "Year of manufacture", "Mileage"},
		},
		{
			name:       "one key in the wrong case",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel Type":"Petrol","Engine size":1.8,"Year of manufacture":2018,"Mileage":45000}`,
			wantFields: []string{"Fuel type"},
		},
		{
			name:       "null field",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":2018,"Mileage":null}`,
			wantFields: []string{"Mileage"},
		},
		{
			name:       "engine size as text",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":"not-a-number","Year of manufacture":2018,"Mileage":45000}`,
			wantFields: []string{"Engine size"},
		},
		{
			name:       "mileage as text",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":2018,"Mileage":"lots"}`,
			wantFields: []string{"Mileage"},
		},
		{
			name:       "fractional year",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":2018.5,"Mileage":45000}`,
			wantFields: []string{"Year of manufacture"},
		},
		{
			name:       "year as text with a fraction",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":"2018.5","Mileage":45000}`,
			wantFields: []string{"Year of manufacture"},
		},
		{
			name:       "several bad values",
			body:       `{"Manufacturer":"Toyota","Model":"Corolla","Fuel type":"Petrol","Engine size":"big","Year of manufacture":2018,"Mileage":"NaN"}`,
			wantFields: []string{"Engine size", "Mileage"},
		},
		{
			name:       "body is not an object",
			body:       `[1, 2, 3]`,
			wantFields: []string{"body"},
		},
		{
			name:       "manufacturer as number",
			body:       `{"Manufacturer":42,"Model":"Corolla","Fuel type":"Petrol","Engine size":1.8,"Year of manufacture":2018,"Mileage":45000}`,
			wantFields: []string{"Manufacturer"},
		},
		{
			name:       "malformed JSON",
			body:       `{"Manufacturer": "Toyota",`,
			wantFields: []string{"body"},
		},
		{
			name:       "empty body",
			body:       ``,
			wantFields: []string{"body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePredictService{loaded: true, price: 15000}
			m := metrics.New(prometheus.NewRegistry())
			r := newPredictEngine(svc, m)

			rec := postJSON(r, tt.body)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Empty(t, svc.calls, "service must not be reached")
			assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures))

			envelope, details := decodeEnvelope(t, rec)
			assert.True(t, envelope.Error)
			assert.Equal(t, http.StatusUnprocessableEntity, envelope.Status)
			assert.Equal(t, "Invalid request data", envelope.Message)

			fields := make([]string, 0, len(details))
			for _, d := range details {
				fields = append(fields, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestPredictHandler_ServiceErrors(t *testing.T) {
	inferenceErr := fmt.Errorf("%w: feature %q: missing feature", services.ErrInferenceFailed, "vintage")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "model not loaded",
			err:        services.ErrModelNotLoaded,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "Model not loaded",
		},
		{
			name:       "inference failure",
			err:        inferenceErr,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    inferenceErr.Error(),
		},
		{
			name:       "unexpected failure",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakePredictService{err: tt.err}
			r := newPredictEngine(svc, metrics.New(prometheus.NewRegistry()))

			rec := postJSON(r, validBody)

			require.Equal(t, tt.wantStatus, rec.Code)
			var envelope sharedmodels.GenericResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.True(t, envelope.Error)
			assert.Equal(t, tt.wantStatus, envelope.Status)
			assert.Equal(t, tt.wantMsg, envelope.Message)
		})
	}
}
