package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romdo/go-pace/clock"
	"github.com/romdo/go-pace/internal/config"
	"github.com/romdo/go-pace/internal/demo"
	"github.com/romdo/go-pace/internal/notes"
	"github.com/romdo/go-pace/internal/panel"
	"github.com/romdo/go-pace/internal/universities"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeSearcher struct{}

func (fakeSearcher) Search(
	_ context.Context,
	country string,
) ([]universities.University, error) {
	if country == "Atlantis" {
		return nil, universities.ErrUpstream
	}

	return []universities.University{{Name: "Tribhuvan University"}}, nil
}

type testServer struct {
	srv   *Server
	app   *demo.App
	clock *clock.Mock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)

	clk := clock.NewMock(epoch)
	app := demo.New(cfg, nil,
		demo.WithClock(clk),
		demo.WithSearcher(fakeSearcher{}),
		demo.WithRoll(func() int { return 10 }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = app.Close()
	})

	return &testServer{srv: New(ctx, app, nil), app: app, clock: clk}
}

func (ts *testServer) do(
	t *testing.T,
	method, path, body string,
) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NOT_FOUND"`)

	rec = ts.do(t, http.MethodGet, "/click", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"METHOD_NOT_ALLOWED"`)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	p := ts.app.Panels.MustGet(panel.Debounce)

	for _, q := range []string{"n", "ne", "nep"} {
		rec := ts.do(t, http.MethodPost, "/search", `{"query":"`+q+`"}`)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}

	ts.clock.Add(time.Second)
	require.Eventually(t, func() bool {
		return len(p.Texts()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Searching for: nep"}, p.Texts())

	rec := ts.do(t, http.MethodPost, "/search", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClick(t *testing.T) {
	ts := newTestServer(t)

	accepted := func() bool {
		rec := ts.do(t, http.MethodPost, "/click", "")
		require.Equal(t, http.StatusAccepted, rec.Code)

		return decodeBody[map[string]bool](t, rec)["accepted"]
	}

	assert.True(t, accepted())
	ts.clock.Add(500 * time.Millisecond)
	assert.False(t, accepted())
	ts.clock.Add(1600 * time.Millisecond)
	assert.True(t, accepted())
}

func TestColors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/colors", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	for i := 0; i < 5; i++ {
		require.Eventually(t, func() bool {
			return ts.clock.Pending() > 0
		}, time.Second, time.Millisecond)
		ts.clock.Add(time.Second)
	}

	require.Eventually(t, func() bool {
		texts := ts.app.Panels.MustGet(panel.Async).Texts()

		return len(texts) > 0 && texts[len(texts)-1] == "Finally block executed."
	}, time.Second, time.Millisecond)
	assert.Equal(t, "cyan", ts.app.Heading.Color())
}

func TestColors_oneRunAtATimeAndShutdownWaits(t *testing.T) {
	ts := newTestServer(t)
	p := ts.app.Panels.MustGet(panel.Async)

	rec := ts.do(t, http.MethodPost, "/colors", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = ts.do(t, http.MethodPost, "/colors", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"CONFLICT"`)

	require.Eventually(t, func() bool {
		return ts.clock.Pending() > 0
	}, time.Second, time.Millisecond)
	ts.clock.Add(time.Second)
	require.Eventually(t, func() bool {
		return len(p.Texts()) == 1 && ts.clock.Pending() > 0
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, ts.srv.Shutdown(ctx))

	texts := p.Texts()
	require.NotEmpty(t, texts)
	assert.Equal(t, "Color changed to yellow", texts[0])
	assert.Contains(t, texts, "Error caught: context canceled")
	assert.Equal(t, "Finally block executed.", texts[len(texts)-1])
	assert.Equal(t, "yellow", ts.app.Heading.Color())
}

func TestUniversities(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/universities?country=Nepal", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		Universities []universities.University `json:"universities"`
		Rendered     []string                  `json:"rendered"`
	}](t, rec)
	assert.Len(t, body.Universities, 1)
	assert.Equal(t, []string{"1. Tribhuvan University"}, body.Rendered)

	rec = ts.do(t, http.MethodGet, "/universities?country=%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/universities?country=Atlantis", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDelegatedNotes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/notes", `{"text":" buy milk "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	n := decodeBody[notes.Note](t, rec)
	assert.Equal(t, "buy milk", n.Text)

	rec = ts.do(t, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]notes.Note](t, rec), 1)

	rec = ts.do(t, http.MethodPost, "/notes", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/notes/"+n.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/notes/"+n.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/notes/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{
		"Note added: buy milk",
		"Note deleted: buy milk",
	}, ts.app.Panels.MustGet(panel.Delegation).Texts())
}

func TestTraversalNotes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/traversal/notes", `{"text":"walk dog"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	n := decodeBody[notes.Note](t, rec)

	rec = ts.do(t, http.MethodGet, "/traversal/notes", "")
	assert.Len(t, decodeBody[[]notes.Note](t, rec), 1)

	rec = ts.do(t, http.MethodDelete, "/traversal/notes/"+n.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/traversal/notes/"+n.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/traversal/notes", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPanels(t *testing.T) {
	ts := newTestServer(t)
	ts.app.Panels.MustGet(panel.Fetch).Log("hello", "world")

	rec := ts.do(t, http.MethodGet, "/panels", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		map[string][]string{"panels": {
			"async", "currying", "debounce", "delegation", "fetch", "traversal",
		}},
		decodeBody[map[string][]string](t, rec),
	)

	rec = ts.do(t, http.MethodGet, "/panels/fetch", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Name  string       `json:"name"`
		Lines []panel.Line `json:"lines"`
	}](t, rec)
	assert.Equal(t, "fetch", body.Name)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, "hello world", body.Lines[0].Text)
	assert.True(t, epoch.Equal(body.Lines[0].At))

	rec = ts.do(t, http.MethodGet, "/panels/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	ts := newTestServer(t)

	assert.NoError(t, ts.srv.Shutdown(context.Background()))
}
