package httpapi

import (
	"net/http"

	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

// RouterOptions carries the transport settings of the router.
type RouterOptions struct {
	CORSAllowedOrigins  []string
	CaptureRequestBody  bool
	RequestBodyMaxBytes int
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerDivisionRoutes(mux, handler)

	var next http.Handler = recoverPanic(logger, mux)
	if opts.CaptureRequestBody {
		next = CaptureRequestBody(opts.RequestBodyMaxBytes, next)
	}
	return RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, next)))
}
