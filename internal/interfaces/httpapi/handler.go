package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/riskibarqy/jugadores-api/internal/platform/logging"
	"github.com/riskibarqy/jugadores-api/internal/usecase"
)

const rootMessage = "API de Jugadores conectada. Prueba /api/jugadores para los datos."

type Handler struct {
	playerService     *usecase.PlayerService
	logger            *logging.Logger
	validator         *validator.Validate
	exposeErrorDetail bool
}

// NewHandler wires the player service into HTTP handlers. exposeErrorDetail
// controls whether 500 responses carry the database error message.
func NewHandler(playerService *usecase.PlayerService, logger *logging.Logger, exposeErrorDetail bool) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Handler{
		playerService:     playerService,
		logger:            logger,
		validator:         v,
		exposeErrorDetail: exposeErrorDetail,
	}
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Root")
	defer span.End()

	writeText(ctx, w, http.StatusOK, rootMessage)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
