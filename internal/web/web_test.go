package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rook-computer/wordclock/internal/state"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, deps APIV1Deps) *httptest.Server {
	t.Helper()
	s := NewHTTPServer("", deps)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeError(t *testing.T, resp *http.Response) apiError {
	t.Helper()
	var out apiError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestStatusReportsSnapshot(t *testing.T) {
	store := state.NewStore()
	store.SetMode(state.Active)
	store.SetRemaining(75*time.Second, "01 : 16")
	store.SetEntry("apple", "An apple a day.")
	store.Count(func(c *state.Counters) { c.FetchOK = 3; c.AudioReplays = 5 })

	srv := newTestServer(t, APIV1Deps{Status: store})
	resp, err := http.Get(srv.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "active", got.Mode)
	require.Equal(t, int64(75), got.RemainingSeconds)
	require.Equal(t, "01 : 16", got.Display)
	require.Equal(t, "apple", got.Word)
	require.Equal(t, int64(3), got.Counters.FetchOK)
	require.Equal(t, int64(5), got.Counters.AudioReplays)
}

func TestStatusRejectsPost(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{})
	resp, err := http.Post(srv.URL+"/api/v1/status", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Equal(t, "method_not_allowed", decodeError(t, resp).Error)
}

func TestTouchInjectsTouch(t *testing.T) {
	var touches atomic.Int32
	srv := newTestServer(t, APIV1Deps{Touch: func() { touches.Add(1) }})

	resp, err := http.Post(srv.URL+"/api/v1/touch", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, int32(1), touches.Load())
}

func TestTouchNotConfigured(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{})
	resp, err := http.Post(srv.URL+"/api/v1/touch", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestScreenPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	srv := newTestServer(t, APIV1Deps{Screen: func() image.Image { return img }})

	resp, err := http.Get(srv.URL + "/api/v1/screen.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	decoded, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestScreenUnsupported(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{})
	resp, err := http.Get(srv.URL + "/api/v1/screen.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
	require.Equal(t, "not_implemented", decodeError(t, resp).Error)
}

func TestLinkPNGEncodesQRCode(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{LinkURL: StaticLinkURL("172.30.1.20", ":8080")})

	resp, err := http.Get(srv.URL + "/api/v1/link.png?size=128")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 128, cfg.Width)
}

func TestLinkPNGErrors(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{LinkURL: func(context.Context) (string, error) {
		return "", errors.New("wifi has no address")
	}})

	resp, err := http.Get(srv.URL + "/api/v1/link.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "no_link", decodeError(t, resp).Error)

	resp2, err := http.Get(srv.URL + "/api/v1/link.png?size=0")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestLinkURL(t *testing.T) {
	require.Equal(t, "http://10.0.0.5/", linkURL("10.0.0.5", ":80"))
	require.Equal(t, "http://10.0.0.5/", linkURL("10.0.0.5", ""))
	require.Equal(t, "http://10.0.0.5:8080/", linkURL("10.0.0.5", "0.0.0.0:8080"))
}

type scriptRunner struct{ out string }

func (r scriptRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	return r.out, "", nil
}

func TestDeviceLinkURLUsesWiFiAddress(t *testing.T) {
	url, err := DeviceLinkURL(scriptRunner{out: "172.30.1.20\n"}, ":80")(context.Background())
	require.NoError(t, err)
	require.Equal(t, "http://172.30.1.20/", url)

	_, err = DeviceLinkURL(scriptRunner{}, ":80")(context.Background())
	require.Error(t, err)
}

func TestEmbeddedUIServed(t *testing.T) {
	srv := newTestServer(t, APIV1Deps{})
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExtraRoutesAndDevCORS(t *testing.T) {
	s := NewHTTPServer("", APIV1Deps{})
	s.DevMode = true
	s.Extra = func(mux *http.ServeMux) {
		mux.HandleFunc("/word", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("apple: an apple"))
		})
	}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/word", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Empty(t, resp2.Header.Get("Access-Control-Allow-Origin"))
}

func TestStartAndStop(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", APIV1Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	resp, err := http.Get("http://" + s.ListenAddr() + "/api/v1/status")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop())
	require.Error(t, s.Start(ctx))
}
