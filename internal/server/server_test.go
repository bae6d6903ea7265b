package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-roleform/internal/metrics"
	"github.com/goliatone/go-roleform/internal/server"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/session"
	"github.com/goliatone/go-roleform/pkg/testsupport"
)

type snapshot struct {
	ID       string         `json:"id"`
	Revision int            `json:"revision"`
	Data     map[string]any `json:"data"`
	Schema   model.Schema   `json:"schema"`
}

func newServer(t *testing.T, options ...server.Option) *server.Server {
	t.Helper()
	schema := model.BuildSchema(testsupport.Entities())
	srv, err := server.New(schema, append([]server.Option{server.WithMetrics(metrics.New())}, options...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func createSession(t *testing.T, h http.Handler) snapshot {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d", rec.Code)
	}
	return decode[snapshot](t, rec)
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	body := decode[map[string]string](t, rec)
	if body["code"] != code || body["error"] == "" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestServer_FullFlow(t *testing.T) {
	h := newServer(t).Handler()
	snap := createSession(t, h)
	base := "/sessions/" + snap.ID

	if snap.Revision != 0 || snap.Data["r1_checkbox"] != false {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	expectError(t, do(t, h, http.MethodPost, base+"/submit", map[string]any{}), http.StatusConflict, "SUBMIT_DISABLED")
	expectError(t, do(t, h, http.MethodGet, base+"/export", nil), http.StatusConflict, "NOTHING_SUBMITTED")

	steps := []map[string]any{
		{"key": "values_select", "type": "select", "value": []string{"r1", "r2"}},
		{"key": "r1_checkbox", "type": "checkbox", "value": true},
		{"key": "r1_textfield", "type": "textfield", "value": "Lead"},
	}
	for i, step := range steps {
		rec := do(t, h, http.MethodPost, base+"/changes", step)
		if rec.Code != http.StatusOK {
			t.Fatalf("change %d: status %d: %s", i, rec.Code, rec.Body.String())
		}
		if got := decode[snapshot](t, rec).Revision; got != i+1 {
			t.Fatalf("change %d: revision %d", i, got)
		}
	}

	rec := do(t, h, http.MethodPost, base+"/submit", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: status %d: %s", rec.Code, rec.Body.String())
	}
	want := map[string]any{"values_select": []any{"r1", "r2"}, "r1_textfield": "Lead"}
	if diff := cmp.Diff(want, decode[map[string]any](t, rec)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, h, http.MethodGet, base+"/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="data.json"` {
		t.Fatalf("content disposition = %q", got)
	}
	if got := rec.Body.String(); got != `{"r1_textfield":"Lead","values_select":["r1","r2"]}` {
		t.Fatalf("export body = %s", got)
	}
}

func TestServer_RejectsInvalidChanges(t *testing.T) {
	h := newServer(t).Handler()
	base := "/sessions/" + createSession(t, h).ID

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"unknown field", map[string]any{"key": "nope", "value": true}, http.StatusBadRequest, "UNKNOWN_FIELD"},
		{"hidden checkbox", map[string]any{"key": "r1_checkbox", "value": true}, http.StatusBadRequest, "FIELD_HIDDEN"},
		{"wrong kind", map[string]any{"key": "values_select", "type": "checkbox", "value": true}, http.StatusBadRequest, "INVALID_EVENT"},
		{"not an object", []int{1}, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, do(t, h, http.MethodPost, base+"/changes", tc.body), tc.status, tc.code)
		})
	}
}

func TestServer_UnknownSession(t *testing.T) {
	h := newServer(t).Handler()
	for _, path := range []string{"/sessions/missing", "/sessions/missing/schema", "/sessions/missing/export"} {
		expectError(t, do(t, h, http.MethodGet, path, nil), http.StatusNotFound, "NOT_FOUND")
	}
}

func TestServer_IndexRedirectsToNewSession(t *testing.T) {
	srv := newServer(t)
	rec := do(t, srv.Handler(), http.MethodGet, "/", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/sessions/") {
		t.Fatalf("location = %q", location)
	}
	if srv.Sessions().Len() != 1 {
		t.Fatalf("expected one session, got %d", srv.Sessions().Len())
	}
}

func TestServer_FormHTML(t *testing.T) {
	h := newServer(t).Handler()
	id := createSession(t, h).ID

	rec := do(t, h, http.MethodGet, "/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`action="/sessions/` + id + `/submit"`,
		`data-change-url="/sessions/` + id + `/changes"`,
		`<link rel="stylesheet" href="/assets/roleform.css">`,
		`<script src="/assets/roleform.js" defer></script>`,
		`value="` + id + `"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("form missing %q:\n%s", want, body)
		}
	}
}

func TestServer_FormPostShowsNotice(t *testing.T) {
	h := newServer(t).Handler()
	id := createSession(t, h).ID

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/submit", strings.NewReader(url.Values{"values_select": {"r1"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Select at least one role before submitting.") {
		t.Fatalf("notice missing:\n%s", rec.Body.String())
	}
}

func TestServer_SchemaDocument(t *testing.T) {
	h := newServer(t).Handler()
	id := createSession(t, h).ID

	rec := do(t, h, http.MethodGet, "/sessions/"+id+"/schema", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	doc := decode[struct {
		SessionID  string         `json:"sessionId"`
		Components []model.Field  `json:"components"`
		Data       map[string]any `json:"data"`
		Links      struct {
			Changes string `json:"changes"`
		} `json:"links"`
	}](t, rec)
	if doc.SessionID != id || len(doc.Components) != 8 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Links.Changes != "/sessions/"+id+"/changes" {
		t.Fatalf("changes link = %q", doc.Links.Changes)
	}
}

func TestServer_Infrastructure(t *testing.T) {
	h := newServer(t).Handler()

	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/openapi.json", nil); !strings.Contains(rec.Body.String(), `"createSession"`) {
		t.Fatalf("openapi document missing operations: %s", rec.Body.String())
	}
	rec := do(t, h, http.MethodGet, "/assets/roleform.css", nil)
	if rec.Code != http.StatusOK || rec.Body.Len() == 0 {
		t.Fatalf("stylesheet: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/metrics", nil); !strings.Contains(rec.Body.String(), "roleform_http_requests_total") {
		t.Fatalf("metrics missing request counter:\n%s", rec.Body.String())
	}
}

func TestServer_RequiresKnownHTMLRenderer(t *testing.T) {
	schema := model.BuildSchema(testsupport.Entities())
	if _, err := server.New(schema, server.WithRenderers(render.NewRegistry(), "missing")); err == nil {
		t.Fatal("expected error for unknown html renderer")
	}
}

func TestServer_ExpiredSessions(t *testing.T) {
	manager := session.NewManager(time.Nanosecond)
	h := newServer(t, server.WithSessions(manager)).Handler()
	id := createSession(t, h).ID
	time.Sleep(time.Millisecond)

	expectError(t, do(t, h, http.MethodGet, "/sessions/"+id+"/schema", nil), http.StatusNotFound, "NOT_FOUND")
}
