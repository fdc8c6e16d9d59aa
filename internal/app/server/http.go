package server

import (
	"net/http"

	"github.com/eslsoft/islamic-sources/internal/adapter/transport"
	"github.com/eslsoft/islamic-sources/internal/config"
	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// NewHTTPHandler wires the gin handlers into the API router.
func NewHTTPHandler(
	cfg config.Config,
	log *logger.Logger,
	tracing TracingEnabled,
	courses *transport.CourseHandler,
	curriculum *transport.CurriculumHandler,
	progress *transport.ProgressHandler,
	authn core.Authenticator,
	limiter core.RateLimiter,
) http.Handler {
	serviceName := ""
	if tracing {
		serviceName = cfg.ServiceName
	}
	return transport.NewRouter(transport.RouterConfig{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Courses:        courses,
		Curriculum:     curriculum,
		Progress:       progress,
		Authenticator:  authn,
		ProgressLimit:  limiter,
		Logger:         log,
	})
}
