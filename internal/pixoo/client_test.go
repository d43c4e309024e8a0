package pixoo

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

	"github.com/jwulff/roundel/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.1.100")

	assert.Equal(t, "192.168.1.100", client.IP)
	assert.Equal(t, DefaultPort, client.Port)
	assert.NotNil(t, client.httpClient)
}

func TestClientEndpoint(t *testing.T) {
	client := NewClient("192.168.1.100")
	assert.Equal(t, "http://192.168.1.100:80/post", client.Endpoint())

	clientCustomPort := NewClientWithTimeout("192.168.1.100", 8080, time.Second)
	assert.Equal(t, "http://192.168.1.100:8080/post", clientCustomPort.Endpoint())
}

func TestClientSendFrame(t *testing.T) {
	var receivedCommand FrameCommand
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/post", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		err := json.NewDecoder(r.Body).Decode(&receivedCommand)
		require.NoError(t, err)

		_, _ = w.Write([]byte(`{"error_code":0}`))
	}))
	defer server.Close()

	client := newTestClient(server, time.Second)

	frame := domain.NewFrame(MirrorSize, MirrorSize)
	frame.Fill(domain.NewRGB(255, 0, 0))
	err := client.SendFrame(context.Background(), frame, 3)

	require.NoError(t, err)
	assert.Equal(t, "Draw/SendHttpGif", receivedCommand.Command)
	assert.Equal(t, 64, receivedCommand.PicWidth)
	assert.Equal(t, 3, receivedCommand.PicID)
	assert.NotEmpty(t, receivedCommand.PicData)
}

func TestClientSendFrameRejectsWrongSize(t *testing.T) {
	client := NewClient("192.168.1.100")

	err := client.SendFrame(context.Background(), domain.NewFrame(240, 240), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64x64")
}

func TestClientSendFrameError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server, time.Second)

	err := client.SendFrame(context.Background(), domain.NewFrame(MirrorSize, MirrorSize), 1)
	assert.Error(t, err)
}

func TestClientSendFrameTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server, 50*time.Millisecond)

	err := client.SendFrame(context.Background(), domain.NewFrame(MirrorSize, MirrorSize), 1)
	assert.Error(t, err)
}

func TestClientGetDeviceTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cmd Command
		_ = json.NewDecoder(r.Body).Decode(&cmd)
		assert.Equal(t, "Device/GetDeviceTime", cmd.Command)

		_, _ = w.Write([]byte(`{"error_code":0,"UTCTime":1706000000}`))
	}))
	defer server.Close()

	client := newTestClient(server, time.Second)
	resp, err := client.GetDeviceTime(context.Background())

	require.NoError(t, err)
	assert.Contains(t, string(resp), "UTCTime")
}

func TestClientSetBrightness(t *testing.T) {
	var receivedCommand BrightnessCommand
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := json.NewDecoder(r.Body).Decode(&receivedCommand)
		require.NoError(t, err)

		_, _ = w.Write([]byte(`{"error_code":0}`))
	}))
	defer server.Close()

	client := newTestClient(server, time.Second)
	err := client.SetBrightness(context.Background(), 75)

	require.NoError(t, err)
	assert.Equal(t, "Channel/SetBrightness", receivedCommand.Command)
	assert.Equal(t, 75, receivedCommand.Brightness)
}

func TestClientIsReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error_code":0}`))
	}))
	defer server.Close()

	assert.True(t, newTestClient(server, time.Second).IsReachable(context.Background()))
}

func TestClientIsReachableFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server, 100*time.Millisecond)

	assert.False(t, client.IsReachable(context.Background()))
}

// newTestClient creates a client that posts to a test server.
func newTestClient(server *httptest.Server, timeout time.Duration) *Client {
	host := strings.TrimPrefix(server.URL, "http://")
	client := NewClientWithTimeout(host, 0, timeout)
	client.baseURL = server.URL + "/post"
	return client
}
