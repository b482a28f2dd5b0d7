package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-framepanel/pkg/frame/sim"
	"github.com/goliatone/go-framepanel/pkg/logging"
	"github.com/goliatone/go-framepanel/pkg/panel"
	"github.com/goliatone/go-framepanel/pkg/renderers/vanilla"
)

func newTestServer(t *testing.T) (*Server, *sim.Host, *logging.Tail) {
	t.Helper()

	tail := logging.NewTail(32)
	log := logging.NewWithTail(tail)

	host := sim.New(sim.WithStartURL("https://a.com/"))
	controller, err := panel.New(host, panel.WithLogger(log), panel.WithTail(tail))
	require.NoError(t, err)
	t.Cleanup(controller.Close)

	renderer, err := vanilla.New()
	require.NoError(t, err)

	srv, err := New(Config{Title: "Test Panel"}, host, controller, renderer,
		WithLogger(log), WithTail(tail))
	require.NoError(t, err)
	return srv, host, tail
}

func TestIndexRendersPanel(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Test Panel")
	assert.Contains(t, body, "/api/controls/navigate")
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSubmitNavigates(t *testing.T) {
	srv, host, _ := newTestServer(t)

	// Render first so field access is unblocked.
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{}
	form.Set(panel.FieldNavigateSrc, "https://b.com/")
	req := httptest.NewRequest(http.MethodPost, "/api/controls/"+panel.ControlNavigate, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://b.com/", host.CurrentURL())
}

func TestSubmitAppliesSelectChoice(t *testing.T) {
	srv, host, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	form := url.Values{}
	form.Set(panel.FieldScriptName, "probe")
	form.Set(panel.FieldScriptCode, "console.log('hi')")
	form.Set(panel.FieldScriptRunAt, "document_start")
	req := httptest.NewRequest(http.MethodPost, "/api/controls/"+panel.ControlAddScript, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	scripts := host.ContentScripts()
	require.Len(t, scripts, 1)
	assert.Equal(t, "document_start", scripts[0].RunAt)
}

func TestSubmitUnknownControl(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/controls/nope", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitBeforeRenderConflicts(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/controls/"+panel.ControlNavigate, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	srv, host, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, host.Navigate(context.Background(), "https://b.com/"))

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	// The refreshed state shows up in the re-rendered document.
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "https://b.com/")
}

func TestExpandedEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expanded", strings.NewReader(`{"expanded":false}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rec.Body.String(), " open>")
}

func TestExpandedRejectsBadBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expanded", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/log", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Entries []logging.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
}

func TestWebsocketStreamsEvents(t *testing.T) {
	srv, host, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, host.Navigate(context.Background(), "https://b.com/"))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "event" {
			require.NotNil(t, msg.Event)
			return
		}
	}
}
