package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/jugadores-api/internal/domain/player"
	"github.com/riskibarqy/jugadores-api/internal/usecase"
)

const (
	birthDateLayout = "2006-01-02"

	msgListFailed     = "Error interno del servidor al acceder a la BD."
	msgCreateFailed   = "Error al crear el jugador en la BD."
	msgMissingFields  = "Faltan campos obligatorios: nombre, apellidos, fecha_nacimiento y categoria_principal_id."
	msgInvalidPayload = "El cuerpo de la solicitud no es un JSON válido."
	msgPlayerCreated  = "Jugador creado exitosamente."
)

// payloadJSON keeps numbers as json.Number so they reach the database with
// their original text.
var payloadJSON = jsoniter.Config{UseNumber: true}.Froze()

// createPlayerRequest only checks presence. Values are kept as decoded and
// the database coerces them into the column types.
type createPlayerRequest struct {
	Nombre               any `json:"nombre" validate:"required,notblank"`
	Apellidos            any `json:"apellidos" validate:"required,notblank"`
	FechaNacimiento      any `json:"fecha_nacimiento" validate:"required,notblank"`
	CategoriaPrincipalID any `json:"categoria_principal_id" validate:"required,notblank"`
	Email                any `json:"email"`
}

type playerDTO struct {
	ID                   int64   `json:"jugador_id"`
	Nombre               string  `json:"nombre"`
	Apellidos            string  `json:"apellidos"`
	FechaNacimiento      *string `json:"fecha_nacimiento"`
	CategoriaPrincipalID int64   `json:"categoria_principal_id"`
	Email                *string `json:"email"`
}

type createdPlayerDTO struct {
	ID     int64  `json:"jugador_id"`
	Nombre string `json:"nombre"`
}

type createPlayerResponse struct {
	Mensaje string           `json:"mensaje"`
	Jugador createdPlayerDTO `json:"jugador"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.playerService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err, msgListFailed, h.exposeErrorDetail)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeJSON(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "read create player payload failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: read payload: %v", usecase.ErrInvalidInput, err), msgInvalidPayload, false)
		return
	}

	// An empty body counts as an empty object and fails validation below.
	var req createPlayerRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := payloadJSON.Unmarshal(body, &req); err != nil {
			h.logger.WarnContext(ctx, "decode create player payload failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err), msgInvalidPayload, false)
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err, msgMissingFields, false)
		return
	}

	nombre := payloadText(req.Nombre)
	created, err := h.playerService.CreatePlayer(ctx, usecase.CreatePlayerInput{
		Nombre:               nombre,
		Apellidos:            payloadText(req.Apellidos),
		FechaNacimiento:      payloadText(req.FechaNacimiento),
		CategoriaPrincipalID: optionalPayloadText(req.CategoriaPrincipalID),
		Email:                optionalPayloadText(req.Email),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create player failed", "nombre", nombre, "error", err)
		writeError(ctx, w, err, createFailureMessage(err), h.exposeErrorDetail)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, createPlayerResponse{
		Mensaje: msgPlayerCreated,
		Jugador: createdPlayerDTO{ID: created.ID, Nombre: created.Nombre},
	})
}

func createFailureMessage(err error) string {
	if isInvalidInput(err) {
		return msgMissingFields
	}
	return msgCreateFailed
}

// payloadText renders a decoded JSON value the way it is bound as a text
// parameter. Objects and arrays keep their JSON form.
func payloadText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		// json.Number from UseNumber decoding.
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		out, err := payloadJSON.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	}
}

func optionalPayloadText(v any) *string {
	if v == nil {
		return nil
	}
	text := payloadText(v)
	return &text
}

func playerToDTO(p player.Player) playerDTO {
	var birth *string
	if !p.FechaNacimiento.IsZero() {
		formatted := p.FechaNacimiento.Format(birthDateLayout)
		birth = &formatted
	}

	return playerDTO{
		ID:                   p.ID,
		Nombre:               p.Nombre,
		Apellidos:            p.Apellidos,
		FechaNacimiento:      birth,
		CategoriaPrincipalID: p.CategoriaPrincipalID,
		Email:                p.Email,
	}
}
