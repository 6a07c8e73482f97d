package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

const defaultMaxUploadBytes = 1 << 20

var divisionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type Handler struct {
	divisions      *usecase.DivisionService
	logger         *logging.Logger
	validator      *validator.Validate
	maxUploadBytes int64
}

func NewHandler(divisions *usecase.DivisionService, logger *logging.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("divisionid", func(fl validator.FieldLevel) bool {
		return divisionIDPattern.MatchString(fl.Field().String())
	})

	return &Handler{
		divisions:      divisions,
		logger:         logger,
		validator:      v,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// readBody hands the request body to fn through a pooled buffer. The slice
// is only valid until fn returns.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request, fn func(body []byte) error) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)); err != nil {
		return fmt.Errorf("%w: read request body: %w", usecase.ErrInvalidInput, err)
	}
	return fn(buf.B)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return h.readBody(w, r, func(body []byte) error {
		if err := strictJSON.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
		return nil
	})
}
