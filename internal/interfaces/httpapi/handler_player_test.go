package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/jugadores-api/internal/domain/player"
	"github.com/riskibarqy/jugadores-api/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/jugadores-api/internal/platform/logging"
	"github.com/riskibarqy/jugadores-api/internal/usecase"
	"github.com/sourcegraph/conc"
)

type unreachableRepository struct{}

func (unreachableRepository) List(context.Context) ([]player.Player, error) {
	return nil, crerr.Mark(crerr.Wrap(errors.New("connect ECONNREFUSED 127.0.0.1:5432"), "acquire database connection"), player.ErrConnectivity)
}

func (unreachableRepository) Create(context.Context, player.NewPlayer) (player.Created, error) {
	return player.Created{}, crerr.Mark(crerr.Wrap(errors.New("connect ECONNREFUSED 127.0.0.1:5432"), "acquire database connection"), player.ErrConnectivity)
}

func newTestRouter(t *testing.T, repo player.Repository, exposeDetail bool) http.Handler {
	t.Helper()

	handler := NewHandler(usecase.NewPlayerService(repo), logging.NewNop(), exposeDetail)
	return NewRouter(handler, logging.NewNop(), []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := sonic.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
}

func TestRoot_ReturnsReadinessText(t *testing.T) {
	router := newTestRouter(t, memory.NewPlayerRepository(nil), true)

	rec := doRequest(t, router, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != rootMessage {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type: %q", rec.Header().Get("Content-Type"))
	}
}

func TestRoot_DoesNotShadowUnknownPaths(t *testing.T) {
	router := newTestRouter(t, memory.NewPlayerRepository(nil), true)

	rec := doRequest(t, router, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, memory.NewPlayerRepository(nil), true)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestListPlayers_EmptyTableIsEmptyArray(t *testing.T) {
	router := newTestRouter(t, memory.NewPlayerRepository(nil), true)

	rec := doRequest(t, router, http.MethodGet, "/api/jugadores", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestCreateThenList_RoundTrip(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
		`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":1,"email":"ana@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var created struct {
		Mensaje string `json:"mensaje"`
		Jugador struct {
			ID     int64  `json:"jugador_id"`
			Nombre string `json:"nombre"`
		} `json:"jugador"`
	}
	decodeBody(t, rec, &created)
	if created.Mensaje != msgPlayerCreated {
		t.Fatalf("unexpected mensaje: %q", created.Mensaje)
	}
	if created.Jugador.ID != 1 || created.Jugador.Nombre != "Ana" {
		t.Fatalf("unexpected jugador: %+v", created.Jugador)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/jugadores", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("expected one player, got %d", len(items))
	}
	got := items[0]
	if got["nombre"] != "Ana" || got["apellidos"] != "Ruiz" {
		t.Fatalf("unexpected player: %v", got)
	}
	if got["fecha_nacimiento"] != "2000-01-01" {
		t.Fatalf("unexpected fecha_nacimiento: %v", got["fecha_nacimiento"])
	}
	if got["email"] != "ana@example.com" {
		t.Fatalf("unexpected email: %v", got["email"])
	}
}

func TestCreatePlayer_OmittedEmailIsNull(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
		`{"nombre":"Luis","apellidos":"Gómez","fecha_nacimiento":"2001-02-03","categoria_principal_id":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/jugadores", "")
	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("expected one player, got %d", len(items))
	}
	email, ok := items[0]["email"]
	if !ok || email != nil {
		t.Fatalf("expected explicit null email, got %v (present=%v)", email, ok)
	}
}

func TestCreatePlayer_MissingFieldsRejectedWithoutWrite(t *testing.T) {
	bodies := map[string]string{
		"missing nombre":    `{"apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":1}`,
		"blank apellidos":   `{"nombre":"Ana","apellidos":"  ","fecha_nacimiento":"2000-01-01","categoria_principal_id":1}`,
		"missing fecha":     `{"nombre":"Ana","apellidos":"Ruiz","categoria_principal_id":1}`,
		"missing categoria": `{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01"}`,
		"null categoria":    `{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":null}`,
		"empty object":      `{}`,
		"empty body":        "",
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			repo := memory.NewPlayerRepository(nil)
			router := newTestRouter(t, repo, true)

			rec := doRequest(t, router, http.MethodPost, "/api/jugadores", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
			}

			var got map[string]any
			decodeBody(t, rec, &got)
			if got["error"] != msgMissingFields {
				t.Fatalf("unexpected error message: %v", got["error"])
			}
			if repo.Count() != 0 {
				t.Fatalf("expected no stored rows, got %d", repo.Count())
			}
		})
	}
}

func TestCreatePlayer_MalformedJSON(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores", `{"nombre":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if got["error"] != msgInvalidPayload {
		t.Fatalf("unexpected error message: %v", got["error"])
	}
	if repo.Count() != 0 {
		t.Fatalf("expected no stored rows, got %d", repo.Count())
	}
}

func TestCreatePlayer_ConcurrentRequestsGetDistinctIDs(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	const workers = 16
	var (
		mu  sync.Mutex
		ids = make(map[int64]struct{}, workers)
		wg  conc.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Go(func() {
			rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
				`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":1}`)
			if rec.Code != http.StatusCreated {
				t.Errorf("expected status 201, got %d", rec.Code)
				return
			}
			var created struct {
				Jugador struct {
					ID int64 `json:"jugador_id"`
				} `json:"jugador"`
			}
			if err := sonic.Unmarshal(rec.Body.Bytes(), &created); err != nil {
				t.Errorf("unmarshal create response: %v", err)
				return
			}
			mu.Lock()
			ids[created.Jugador.ID] = struct{}{}
			mu.Unlock()
		})
	}
	wg.Wait()

	if len(ids) != workers {
		t.Fatalf("expected %d distinct ids, got %d", workers, len(ids))
	}

	rec := doRequest(t, router, http.MethodGet, "/api/jugadores", "")
	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != workers {
		t.Fatalf("expected %d players, got %d", workers, len(items))
	}
	var prev float64
	for _, item := range items {
		id, _ := item["jugador_id"].(float64)
		if id <= prev {
			t.Fatalf("expected strictly increasing ids, got %v after %v", id, prev)
		}
		prev = id
	}
}

func TestDatabaseUnreachable(t *testing.T) {
	t.Run("list hides detail when disabled", func(t *testing.T) {
		router := newTestRouter(t, unreachableRepository{}, false)

		rec := doRequest(t, router, http.MethodGet, "/api/jugadores", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		var got map[string]any
		decodeBody(t, rec, &got)
		if got["error"] != msgListFailed {
			t.Fatalf("unexpected error message: %v", got["error"])
		}
		if _, ok := got["detalle"]; ok {
			t.Fatalf("did not expect detalle when exposure is disabled")
		}
	})

	t.Run("create carries detail when enabled", func(t *testing.T) {
		router := newTestRouter(t, unreachableRepository{}, true)

		rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
			`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":1}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", rec.Code)
		}
		var got map[string]any
		decodeBody(t, rec, &got)
		if got["error"] != msgCreateFailed {
			t.Fatalf("unexpected error message: %v", got["error"])
		}
		if got["detalle"] != "connect ECONNREFUSED 127.0.0.1:5432" {
			t.Fatalf("unexpected detalle: %v", got["detalle"])
		}
	})

	t.Run("list carries detail when enabled", func(t *testing.T) {
		router := newTestRouter(t, unreachableRepository{}, true)

		rec := doRequest(t, router, http.MethodGet, "/api/jugadores", "")
		var got map[string]any
		decodeBody(t, rec, &got)
		if got["detalle"] != "connect ECONNREFUSED 127.0.0.1:5432" {
			t.Fatalf("unexpected detalle: %v", got["detalle"])
		}
	})
}

func TestCreatePlayer_UnparsableDateIsServerError(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
		`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"ayer","categoria_principal_id":1}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if got["error"] != msgCreateFailed {
		t.Fatalf("unexpected error message: %v", got["error"])
	}
	if _, ok := got["detalle"]; !ok {
		t.Fatalf("expected detalle on create failure")
	}
}

func TestRecoverPanic_Answers500(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := recoverPanic(logging.NewNop(), next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jugadores", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestCreatePlayer_CategoryValueReachesRepositoryUntyped(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
		`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":"1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for string category, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/jugadores", "")
	var items []map[string]any
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("expected one player, got %d", len(items))
	}
	if got, _ := items[0]["categoria_principal_id"].(float64); got != 1 {
		t.Fatalf("unexpected categoria_principal_id: %v", items[0]["categoria_principal_id"])
	}
}

func TestCreatePlayer_NonIntegerCategoryIsDatabaseError(t *testing.T) {
	for name, category := range map[string]string{
		"fraction": `1.5`,
		"word":     `"abc"`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := memory.NewPlayerRepository(nil)
			router := newTestRouter(t, repo, true)

			rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
				`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":`+category+`}`)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d body=%s", rec.Code, rec.Body.String())
			}

			var got map[string]any
			decodeBody(t, rec, &got)
			if got["error"] != msgCreateFailed {
				t.Fatalf("unexpected error message: %v", got["error"])
			}
			detalle, _ := got["detalle"].(string)
			if !strings.Contains(detalle, "invalid input syntax for type integer") {
				t.Fatalf("unexpected detalle: %q", detalle)
			}
			if repo.Count() != 0 {
				t.Fatalf("expected no stored rows, got %d", repo.Count())
			}
		})
	}
}

func TestCreatePlayer_TrailingDataAfterObjectRejected(t *testing.T) {
	repo := memory.NewPlayerRepository(nil)
	router := newTestRouter(t, repo, true)

	rec := doRequest(t, router, http.MethodPost, "/api/jugadores",
		`{"nombre":"Ana","apellidos":"Ruiz","fecha_nacimiento":"2000-01-01","categoria_principal_id":1} garbage`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	var got map[string]any
	decodeBody(t, rec, &got)
	if got["error"] != msgInvalidPayload {
		t.Fatalf("unexpected error message: %v", got["error"])
	}
	if repo.Count() != 0 {
		t.Fatalf("expected no stored rows, got %d", repo.Count())
	}
}

func TestPayloadText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "integer keeps its text", in: `{"v":1}`, want: "1"},
		{name: "fraction keeps its text", in: `{"v":1.50}`, want: "1.50"},
		{name: "string", in: `{"v":"1"}`, want: "1"},
		{name: "bool", in: `{"v":true}`, want: "true"},
		{name: "object as json", in: `{"v":{"a":1}}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded struct {
				V any `json:"v"`
			}
			if err := payloadJSON.Unmarshal([]byte(tt.in), &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := payloadText(decoded.V); got != tt.want {
				t.Fatalf("payloadText=%q want=%q", got, tt.want)
			}
		})
	}
}
