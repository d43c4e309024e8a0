package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/roundel/internal/display"
	"github.com/jwulff/roundel/internal/domain"
	"github.com/jwulff/roundel/internal/mode"
	"github.com/jwulff/roundel/internal/storage"
	"github.com/jwulff/roundel/internal/storage/sqlite"
)

type fakeController struct {
	status  mode.Status
	pressed []int
	ctxErrs []error
}

func (c *fakeController) Status() mode.Status { return c.status }

func (c *fakeController) HandleButton(ctx context.Context, index int) error {
	if index > 2 {
		return fmt.Errorf("button %d: %w", index, mode.ErrModeUnavailable)
	}
	c.pressed = append(c.pressed, index)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	return nil
}

type fakeFrames struct {
	p  display.Presented
	ok bool
}

func (f *fakeFrames) Latest() (display.Presented, bool) { return f.p, f.ok }

func newTestServer(t *testing.T) (*httptest.Server, *fakeController, *fakeFrames, *Hub) {
	t.Helper()
	ctrl := &fakeController{status: mode.Status{Mode: "ambient", Theme: "light", Modes: []string{"ambient", "transit"}}}
	frames := &fakeFrames{}
	hub := NewHub(zerolog.Nop())
	srv := NewServer(Config{Controller: ctrl, Frames: frames, Hub: hub, Logger: zerolog.Nop(), ButtonLimit: 100})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, ctrl, frames, hub
}

func TestHealthz(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatus(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var s mode.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "ambient", s.Mode)
	assert.Equal(t, []string{"ambient", "transit"}, s.Modes)
}

func TestFramePNG(t *testing.T) {
	ts, _, frames, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/frame.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	frames.p = display.Presented{Mode: "transit", Frame: domain.NewFrame(8, 8)}
	frames.ok = true

	resp, err = http.Get(ts.URL + "/frame.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "transit", resp.Header.Get("X-Roundel-Mode"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func newStoreServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := NewServer(Config{
		Controller:   &fakeController{},
		Frames:       &fakeFrames{},
		Logger:       zerolog.Nop(),
		StoredFrames: store,
		Feeds:        store,
		FeedIDs:      []string{"transit", "weather"},
		History:      store,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func TestFramePNGFallsBackToStoredFrame(t *testing.T) {
	ts, store := newStoreServer(t)

	resp, err := http.Get(ts.URL + "/frame.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	data, err := display.EncodePNG(domain.NewFrame(4, 4))
	require.NoError(t, err)
	at := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	require.NoError(t, store.CacheFrame(context.Background(), &storage.CachedFrame{Mode: "weather", FrameData: data, GeneratedAt: at}))

	resp, err = http.Get(ts.URL + "/frame.png")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "weather", resp.Header.Get("X-Roundel-Mode"))
	assert.Equal(t, "2024-03-01T07:30:00Z", resp.Header.Get("X-Roundel-Cached"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

func TestFeeds(t *testing.T) {
	ts, store := newStoreServer(t)
	ctx := context.Background()

	state := domain.NewFeedState("transit")
	state.RecordSuccess(map[string]int{"arrivals": 3})
	state.RecordError("timeout")
	require.NoError(t, store.SaveFeedState(ctx, state))

	resp, err := http.Get(ts.URL + "/feeds")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feeds []FeedStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feeds))
	require.Len(t, feeds, 1)
	assert.Equal(t, "transit", feeds[0].Feed)
	assert.False(t, feeds[0].Healthy)
	assert.Equal(t, 1, feeds[0].ErrorCount)
	assert.Equal(t, "timeout", feeds[0].LastError)
}

func TestHistory(t *testing.T) {
	ts, store := newStoreServer(t)
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.StoreReadings(context.Background(), []domain.Reading{
		domain.NewReading(domain.MetricTemperature, now.Add(-3*time.Hour), 19.5),
		domain.NewReading(domain.MetricTemperature, now.Add(-30*time.Minute), 21),
		domain.NewReading(domain.MetricHumidity, now.Add(-30*time.Minute), 40),
	}))

	resp, err := http.Get(ts.URL + "/history?metric=temperature&since=1h")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Metric   string         `json:"metric"`
		Readings []HistoryPoint `json:"readings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "temperature", body.Metric)
	require.Len(t, body.Readings, 1)
	assert.Equal(t, 21.0, body.Readings[0].Value)

	for _, q := range []string{"?metric=wind", "?metric=light&since=soon", "?metric=light&since=-1h"} {
		resp, err := http.Get(ts.URL + "/history" + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestButtons(t *testing.T) {
	ts, ctrl, _, _ := newTestServer(t)

	tests := []struct {
		path string
		want int
	}{
		{"/buttons/1", http.StatusAccepted},
		{"/buttons/3", http.StatusConflict},
		{"/buttons/9", http.StatusBadRequest},
		{"/buttons/-1", http.StatusBadRequest},
		{"/buttons/up", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", nil)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	assert.Equal(t, []int{1}, ctrl.pressed)
}

func TestButtonSurvivesClientDisconnect(t *testing.T) {
	ctrl := &fakeController{}
	srv := NewServer(Config{Controller: ctrl, Frames: &fakeFrames{}, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/buttons/1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, ctrl.ctxErrs, 1)
	assert.NoError(t, ctrl.ctxErrs[0])
}

func TestButtonsRateLimited(t *testing.T) {
	ctrl := &fakeController{}
	srv := NewServer(Config{Controller: ctrl, Frames: &fakeFrames{}, Logger: zerolog.Nop(), ButtonLimit: 2})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := http.Post(ts.URL+"/buttons/0", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketFrameEvents(t *testing.T) {
	ts, _, _, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, hub.Present(context.Background(), display.Presented{Mode: "weather", At: at}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventFrame, ev.Type)
	assert.Equal(t, "weather", ev.Mode)
	assert.True(t, at.Equal(ev.At))
}
