package web

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"

	"github.com/rook-computer/wordclock/internal/render"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type countersResponse struct {
	FetchOK      int64 `json:"fetchOk"`
	FetchFailed  int64 `json:"fetchFailed"`
	AudioReplays int64 `json:"audioReplays"`
	Sleeps       int64 `json:"sleeps"`
	Touches      int64 `json:"touches"`
	Truncations  int64 `json:"truncations"`
}

type statusResponse struct {
	Mode             string           `json:"mode"`
	RemainingSeconds int64            `json:"remainingSeconds"`
	Display          string           `json:"display"`
	Word             string           `json:"word"`
	Sentence         string           `json:"sentence"`
	Counters         countersResponse `json:"counters"`
}

const (
	defaultLinkSizePx = 256
	maxLinkSizePx     = 1024
)

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/touch", func(w http.ResponseWriter, r *http.Request) { handleTouch(w, r, deps) })
	mux.HandleFunc("/screen.png", func(w http.ResponseWriter, r *http.Request) { handleScreen(w, r, deps) })
	mux.HandleFunc("/link.png", func(w http.ResponseWriter, r *http.Request) { handleLink(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Status.Snapshot()
	c := snap.Counters
	writeJSON(w, http.StatusOK, statusResponse{
		Mode:             snap.Mode.String(),
		RemainingSeconds: int64(snap.Remaining.Seconds()),
		Display:          snap.Display,
		Word:             snap.Word,
		Sentence:         snap.Sentence,
		Counters: countersResponse{
			FetchOK:      c.FetchOK,
			FetchFailed:  c.FetchFailed,
			AudioReplays: c.AudioReplays,
			Sleeps:       c.Sleeps,
			Touches:      c.Touches,
			Truncations:  c.Truncations,
		},
	})
}

func handleTouch(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Touch == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "touch not configured")
		return
	}
	deps.Touch()
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func handleScreen(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Screen == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "panel does not support snapshots")
		return
	}
	img := deps.Screen()
	if img == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "panel does not support snapshots")
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writePNG(w, buf.Bytes())
}

func handleLink(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	size := defaultLinkSizePx
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxLinkSizePx {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", "size must be 1.."+strconv.Itoa(maxLinkSizePx))
			return
		}
		size = n
	}

	url, err := deps.LinkURL(r.Context())
	if err != nil {
		writeAPIError(w, http.StatusServiceUnavailable, "no_link", err.Error())
		return
	}
	img, err := render.QRCodePNG(url, size)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	writePNG(w, img)
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
