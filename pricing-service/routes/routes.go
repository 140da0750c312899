package routes

import (
	"github.com/Bipul-Dubey/car-price-api/pricing-service/handlers"
	"github.com/Bipul-Dubey/car-price-api/shared/metrics"
	"github.com/Bipul-Dubey/car-price-api/shared/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Options carries the cross-cutting pieces the router needs.
type Options struct {
	Metrics          *metrics.Metrics
	Logger           *zap.Logger
	CORSAllowOrigins []string
}

func SetupRoutes(hm *handlers.HandlerManager, opts Options) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(handlers.JSONTagName)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.CORS(opts.CORSAllowOrigins),
	)

	r.GET("/health", hm.HealthHandler.Health)
	r.GET("/metadata", hm.HealthHandler.Metadata)
	r.POST("/predict", hm.PredictHandler.Predict)

	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	return r
}
