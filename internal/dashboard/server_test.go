package dashboard

import (
	"bufio"
	"context"
	"encoding/json"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/pitwall/internal/config"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns a router over a memory store seeded with docs.
func newTestRouter(t *testing.T, cfg *config.Config, docs map[string]string) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	// Index order follows write order, so seed in sorted key order.
	for _, k := range slices.Sorted(maps.Keys(docs)) {
		if err := st.Set(k, json.RawMessage(docs[k])); err != nil {
			t.Fatalf("seed %s: %v", k, err)
		}
	}
	srv, err := newServer(st, cfg)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	router := gin.New()
	registerRoutes(router, srv)
	return router, st
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var seed = map[string]string{
	"teams-2024miwi": `[{"team_number":254,"nickname":"The Cheesy Poofs"},{"team_number":1114}]`,
	"pit-254":        `{"drivetrain":"swerve"}`,
	"match-a":        `{"team":254,"auto":12,"teleop":30}`,
	"match-b":        `{"team":1114,"auto":8,"teleop":25}`,
}

func TestStart_NilStore(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	if err == nil {
		t.Fatal("expected error for nil store")
	}
	if !strings.Contains(err.Error(), "store is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "store is required")
	}
}

func TestRoster(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/roster?event=2024miwi", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var got struct {
		Mode    string `json:"mode"`
		Scouted int    `json:"scouted"`
		Total   int    `json:"total"`
		Entries []struct {
			TeamNumber int    `json:"team_number"`
			Status     string `json:"status"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Mode != "pit" || got.Scouted != 1 || got.Total != 2 {
		t.Errorf("roster = %+v", got)
	}
	if got.Entries[0].Status != "scouted" || got.Entries[1].Status != "not_scouted" {
		t.Errorf("entries = %+v", got.Entries)
	}
}

func TestRoster_MissingEvent(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	if w := do(t, router, http.MethodGet, "/api/roster", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRoster_UnknownEventIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/roster?event=none", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"entries":[]`) {
		t.Errorf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestRoster_DecodeFailure(t *testing.T) {
	router, _ := newTestRouter(t, nil, map[string]string{"teams-bad": `{"not":"a list"}`})
	if w := do(t, router, http.MethodGet, "/api/roster?event=bad", ""); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRosterOpen(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/roster/open?event=2024miwi&team=1114", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/scout?alliance=pit&mode=pit&team=1114" {
		t.Errorf("Location = %q", loc)
	}

	if w := do(t, router, http.MethodGet, "/api/roster/open?event=2024miwi&team=9999", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown team status = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/roster/open?event=2024miwi&team=abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad team status = %d, want 400", w.Code)
	}
}

func TestResults(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/results?type=match", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	want := `{"header":["file","team","auto","teleop"],"rows":[["match-a","254","12","30"],["match-b","1114","8","25"]]}`
	if w.Body.String() != want {
		t.Errorf("body = %s\nwant   %s", w.Body, want)
	}
}

func TestResults_Empty(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/results?type=qual", "")
	if w.Body.String() != `{"header":[],"rows":[]}` {
		t.Errorf("body = %s", w.Body)
	}
}

func TestResults_DeclaredSchema(t *testing.T) {
	cfg := config.Default()
	cfg.Reports = []config.ReportConfig{{Type: "match", Fields: []string{"teleop", "climb"}}}
	router, _ := newTestRouter(t, cfg, seed)
	w := do(t, router, http.MethodGet, "/api/results?type=match", "")
	want := `{"header":["file","teleop","climb"],"rows":[["match-a","30",""],["match-b","25",""]]}`
	if w.Body.String() != want {
		t.Errorf("body = %s\nwant   %s", w.Body, want)
	}
}

func TestResults_InvalidType(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	for _, target := range []string{"/api/results", "/api/results?type=a-b", "/api/results/summary"} {
		if w := do(t, router, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, w.Code)
		}
	}
}

func TestListLifecycle(t *testing.T) {
	router, st := newTestRouter(t, nil, seed)

	w := do(t, router, http.MethodPost, "/api/lists/favorites", `"auto"`)
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body)
	}
	var view struct {
		Items []struct {
			Index int    `json:"index"`
			Label string `json:"label"`
		} `json:"items"`
		Candidates []struct {
			Key string `json:"key"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 1 || view.Items[0].Label != "Auto" {
		t.Errorf("items = %+v", view.Items)
	}
	for _, c := range view.Candidates {
		if c.Key == "auto" {
			t.Error("candidates should exclude current favorites")
		}
	}

	persisted, err := settings.Load(st)
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted.Favorites) != 1 || persisted.Favorites[0] != "auto" {
		t.Errorf("persisted favorites = %v", persisted.Favorites)
	}

	if w := do(t, router, http.MethodPost, "/api/lists/favorites", `"auto"`); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	} else if !strings.Contains(w.Body.String(), "Auto is already in favorites") {
		t.Errorf("duplicate body = %s", w.Body)
	}
	if w := do(t, router, http.MethodPost, "/api/lists/favorites", `"autoo"`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", w.Code)
	}

	w = do(t, router, http.MethodGet, "/api/results?type=match&favorites=true", "")
	if !strings.HasPrefix(w.Body.String(), `{"header":["file","auto"]`) {
		t.Errorf("favorites results = %s", w.Body)
	}

	if w := do(t, router, http.MethodDelete, "/api/lists/favorites/5", ""); w.Code != http.StatusNotFound {
		t.Errorf("out of range status = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/lists/favorites/0", ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, body %s", w.Code, w.Body)
	}
	persisted, _ = settings.Load(st)
	if len(persisted.Favorites) != 0 {
		t.Errorf("persisted favorites after delete = %v", persisted.Favorites)
	}
}

func TestListAdd_Invalid(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	tests := []struct {
		target, body string
		want         int
	}{
		{"/api/lists/smart_stats", `{"name":"bad","type":"match","expr":"auto +"}`, http.StatusBadRequest},
		{"/api/lists/smart_results", `not json`, http.StatusBadRequest},
		{"/api/lists/unknown", `"x"`, http.StatusNotFound},
	}
	for _, tt := range tests {
		if w := do(t, router, http.MethodPost, tt.target, tt.body); w.Code != tt.want {
			t.Errorf("POST %s status = %d, want %d (body %s)", tt.target, w.Code, tt.want, w.Body)
		}
	}
	if w := do(t, router, http.MethodDelete, "/api/lists/favorites/x", ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-integer index status = %d, want 400", w.Code)
	}
}

func TestSmartStatsAndSummary(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodPost, "/api/lists/smart-stats", `{"name":"total","type":"match","expr":"auto + teleop"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add stat status = %d, body %s", w.Code, w.Body)
	}
	w = do(t, router, http.MethodGet, "/api/results?type=match", "")
	if !strings.Contains(w.Body.String(), `["match-a","254","12","30","42"]`) {
		t.Errorf("results with stat = %s", w.Body)
	}

	w = do(t, router, http.MethodPost, "/api/lists/smart_results", `{"name":"avg_auto","type":"match","field":"auto","agg":"mean"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add result status = %d, body %s", w.Code, w.Body)
	}
	w = do(t, router, http.MethodGet, "/api/results/summary?type=match", "")
	want := `{"header":["result","group","value"],"rows":[["avg_auto","254","12"],["avg_auto","1114","8"]]}`
	if w.Body.String() != want {
		t.Errorf("summary = %s\nwant      %s", w.Body, want)
	}
}

func TestExport(t *testing.T) {
	router, _ := newTestRouter(t, nil, seed)
	w := do(t, router, http.MethodGet, "/api/results/export?type=match", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "file,team,auto,teleop\n") {
		t.Errorf("csv = %q", w.Body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "match.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	w = do(t, router, http.MethodGet, "/api/results/export?type=match&format=xlsx", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "PK") {
		t.Errorf("xlsx status = %d, zip header missing", w.Code)
	}
	if w := do(t, router, http.MethodGet, "/api/results/export?type=match&format=pdf", ""); w.Code != http.StatusBadRequest {
		t.Errorf("pdf status = %d, want 400", w.Code)
	}
}

func TestStoreGetPut(t *testing.T) {
	router, st := newTestRouter(t, nil, seed)

	if w := do(t, router, http.MethodPut, "/api/store/pit-1114", `{"drivetrain":"tank"}`); w.Code != http.StatusNoContent {
		t.Fatalf("put status = %d, body %s", w.Code, w.Body)
	}
	if _, found, _ := st.Get("pit-1114"); !found {
		t.Error("pit-1114 not stored")
	}
	w := do(t, router, http.MethodGet, "/api/store/pit-1114", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"drivetrain":"tank"}` {
		t.Errorf("get = %d %s", w.Code, w.Body)
	}

	if w := do(t, router, http.MethodGet, "/api/store/pit-9", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPut, "/api/store/pit-9", `{bad`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid json status = %d, want 400", w.Code)
	}
	if w := do(t, router, http.MethodPut, "/api/store/config", `{}`); w.Code != http.StatusForbidden {
		t.Errorf("settings put status = %d, want 403", w.Code)
	}
	if w := do(t, router, http.MethodPut, "/api/store/pit-", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("dangling separator status = %d, want 400", w.Code)
	}
}

func TestCoverageSSE(t *testing.T) {
	st := store.NewMemoryStore()
	st.Set("teams-e1", json.RawMessage(`[{"team_number":1},{"team_number":2}]`))
	srv, err := newServer(st, nil)
	if err != nil {
		t.Fatal(err)
	}
	router := gin.New()
	router.GET("/events", handleCoverageSSE(srv, 10*time.Millisecond))
	ts := httptest.NewServer(router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events?event=e1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var data []string
	for len(data) < 3 && scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			data = append(data, strings.TrimPrefix(line, "data: "))
			if len(data) == 2 {
				st.Set("pit-1", json.RawMessage(`{}`))
			}
		}
	}
	if len(data) != 3 {
		t.Fatalf("events = %v", data)
	}
	if !strings.Contains(data[1], `"scouted":0,"total":2`) {
		t.Errorf("first coverage = %s", data[1])
	}
	if !strings.Contains(data[2], `"scouted":1,"total":2`) {
		t.Errorf("updated coverage = %s", data[2])
	}
}

func TestWriteSSE(t *testing.T) {
	var b strings.Builder
	writeSSE(&b, "coverage", coverageEvent{Event: "e", Mode: "pit", Scouted: 1, Total: 3})
	want := "event: coverage\ndata: {\"event\":\"e\",\"mode\":\"pit\",\"scouted\":1,\"total\":3}\n\n"
	if b.String() != want {
		t.Errorf("writeSSE = %q, want %q", b.String(), want)
	}
}
