package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/likorise/internal/config"
	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/sheets"
	"github.com/JonMunkholm/likorise/internal/site"
	"github.com/JonMunkholm/likorise/internal/store"
)

var testNames = site.SheetNames{
	Instructors: "レッスン講師",
	Schedule:    "年間スケジュール",
	Members:     "所属生情報",
}

// fakeFetcher serves canned CSV per sheet name.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) FetchTable(_ context.Context, name string) (csv.Table, error) {
	if err := f.errs[name]; err != nil {
		return csv.Table{}, err
	}
	return csv.ParseTable(f.bodies[name]), nil
}

func (f *fakeFetcher) FetchAll(ctx context.Context, names ...string) []sheets.Result {
	out := make([]sheets.Result, len(names))
	for i, n := range names {
		table, err := f.FetchTable(ctx, n)
		out[i] = sheets.Result{Sheet: n, Table: table, Err: err}
	}
	return out
}

// memLog collects load events.
type memLog struct {
	mu     sync.Mutex
	events []store.LoadEvent
}

func (l *memLog) Record(_ context.Context, ev store.LoadEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
	return nil
}

func (l *memLog) Recent(_ context.Context, limit int) ([]store.LoadEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit > len(l.events) {
		limit = len(l.events)
	}
	return append([]store.LoadEvent(nil), l.events[:limit]...), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: 5 * time.Second,
			SiteTitle:      "Likorise",
		},
		Security: config.SecurityConfig{
			EnableCSP:   true,
			CORSOrigins: []string{"*"},
		},
	}
}

const scheduleCSV = "表示順,月,タイトル,説明\n2,8月,Summer <Show>,Outdoor\n1,4月,Opening,Welcome\n"

func liveFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: map[string]string{
			testNames.Instructors: "表示順,カテゴリ,名前,画像ファイル名\n1,お芝居Lesson,Live Instructor,live.jpg\n",
			testNames.Schedule:    scheduleCSV,
		},
		errs: map[string]error{
			testNames.Members: &sheets.StatusError{Sheet: testNames.Members, StatusCode: http.StatusNotFound},
		},
	}
}

// newTestServer builds a server. A nil fetcher serves fallback content.
func newTestServer(t *testing.T, f site.Fetcher, loads store.Log, cfg *config.Config) *Server {
	t.Helper()
	svc, err := site.NewService(f, testNames, loads)
	require.NoError(t, err)
	srv := NewServer(svc, loads, cfg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(srv *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandlePage_Fallback(t *testing.T) {
	srv := newTestServer(t, nil, nil, testConfig())

	rec := do(srv, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	body := rec.Body.String()
	for _, sec := range site.Sections {
		assert.Contains(t, body, `id="`+string(sec)+`" data-source="fallback"`)
	}
}

func TestHandlePage_LiveWithFailures(t *testing.T) {
	log := &memLog{}
	srv := newTestServer(t, liveFetcher(), log, testConfig())

	rec := do(srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `id="instructors" data-source="sheet"`)
	assert.Contains(t, body, `id="schedule" data-source="sheet"`)
	assert.Contains(t, body, `id="members" data-source="fallback"`)
	assert.Contains(t, body, "Live Instructor")
	assert.Contains(t, body, "Summer &lt;Show&gt;")
	assert.NotContains(t, body, "Summer <Show>")

	// ordered by display order
	assert.Less(t, strings.Index(body, "Opening"), strings.Index(body, "Summer"))

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Len(t, log.events, 3)
}

func TestHandlePage_NoCSP(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = false
	srv := newTestServer(t, nil, nil, cfg)

	rec := do(srv, http.MethodGet, "/", nil)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, liveFetcher(), nil, testConfig())

	rec := do(srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, HealthResponse{Status: "ok", Live: true}, got)
}

func TestHandleListSections(t *testing.T) {
	srv := newTestServer(t, nil, nil, testConfig())

	rec := do(srv, http.MethodGet, "/api/sections", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []SectionInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, []SectionInfo{
		{Key: "instructors", Sheet: testNames.Instructors},
		{Key: "schedule", Sheet: testNames.Schedule},
		{Key: "members", Sheet: testNames.Members},
	}, got)
}

func TestHandleSection(t *testing.T) {
	srv := newTestServer(t, liveFetcher(), nil, testConfig())

	rec := do(srv, http.MethodGet, "/api/sections/schedule", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var got struct {
		Section string              `json:"section"`
		Header  []string            `json:"header"`
		Records []map[string]string `json:"records"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "schedule", got.Section)
	assert.Equal(t, []string{"表示順", "月", "タイトル", "説明"}, got.Header)
	require.Len(t, got.Records, 2)
	// sheet order, not display order
	assert.Equal(t, "Summer <Show>", got.Records[0]["タイトル"])
}

func TestHandleSection_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  site.Fetcher
		path     string
		want     int
		wantCode string
	}{
		{"unknown section", liveFetcher(), "/api/sections/company", http.StatusNotFound, "SEC001"},
		{"sheet missing", liveFetcher(), "/api/sections/members", http.StatusBadGateway, "SHEET001"},
		{"offline", nil, "/api/sections/schedule", http.StatusServiceUnavailable, "SHEET005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.fetcher, nil, testConfig())

			rec := do(srv, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.want, rec.Code)

			var got ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestHandleLoads(t *testing.T) {
	log := &memLog{}
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	srv := newTestServer(t, liveFetcher(), log, cfg)

	// populate the log
	do(srv, http.MethodGet, "/", nil)

	rec := do(srv, http.MethodGet, "/api/loads", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(srv, http.MethodGet, "/api/loads?limit=2", map[string]string{"X-API-Key": "secret"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got LoadsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.Loads, 2)

	for _, bad := range []string{"abc", "0", "501"} {
		rec = do(srv, http.MethodGet, "/api/loads?limit="+bad, map[string]string{"X-API-Key": "secret"})
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
		assert.Contains(t, rec.Body.String(), "REQ003", bad)
	}
}

func TestHandleLoads_NoDatabase(t *testing.T) {
	srv := newTestServer(t, nil, nil, testConfig())

	rec := do(srv, http.MethodGet, "/api/loads", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"loads":[]}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t, nil, nil, testConfig())

	rec := do(srv, http.MethodGet, "/company", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "REQ002")

	rec = do(srv, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil, nil, testConfig())

	rec := do(srv, http.MethodGet, "/api/sections", map[string]string{"Origin": "https://example.com"})
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// the page itself is not a CORS resource
	rec = do(srv, http.MethodGet, "/healthz", map[string]string{"Origin": "https://example.com"})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	srv := newTestServer(t, nil, nil, cfg)

	for i := 0; i < 2; i++ {
		rec := do(srv, http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := do(srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE001")
}

func TestRateLimiter_WindowReset(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     1,
		window:   time.Minute,
		now:      func() time.Time { return now },
		done:     make(chan struct{}),
	}

	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("5.6.7.8"), "limits are per IP")

	now = now.Add(61 * time.Second)
	assert.True(t, rl.allow("1.2.3.4"))

	rl.stop()
	rl.stop() // idempotent
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(site.ErrUnknownSection))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(sheets.ErrNoSpreadsheet))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusBadGateway, statusFor(csv.ErrTooLarge))
	assert.Equal(t, http.StatusBadGateway, statusFor(&sheets.StatusError{StatusCode: 500}))
}
