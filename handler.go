package msgcontent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dpotapov/go-msgcontent/element"
)

// DefaultMaxBodyBytes limits request bodies when Handler.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// Handler serves message rendering over HTTP:
//
//	POST /render   {"content": "...", "format": "text"|"html"}
//	POST /check    a corpus in any layout LoadCorpus accepts; ?filter=EXPR&fail_fast=true
//	GET  /preview  websocket; every {"content": "..."} frame is answered with a rendering
type Handler struct {
	// MaxBodyBytes limits the size of request bodies. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// OnError is a callback that is called when an error occurs while serving a request.
	// Content that fails to parse is reported to the client and is not an error here.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger

	mux *http.ServeMux
}

// RenderRequest is the body of POST /render and of a preview frame.
type RenderRequest struct {
	Content string `json:"content"`
	Format  string `json:"format,omitempty"`
}

// RenderResponse is the answer to a RenderRequest. When the content fails to
// parse, Error is set and Text holds the fallback rendering.
type RenderResponse struct {
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
	Context string `json:"context,omitempty"`
}

// CheckResponse is the answer to POST /check.
type CheckResponse struct {
	Label     string        `json:"label"`
	Checked   int           `json:"checked"`
	Successes int           `json:"successes"`
	Failures  []FailureInfo `json:"failures,omitempty"`
}

// FailureInfo describes one failed message of a check.
type FailureInfo struct {
	ID    int    `json:"id"`
	Error string `json:"error"`
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
		if h.MaxBodyBytes == 0 {
			h.MaxBodyBytes = DefaultMaxBodyBytes
		}

		h.mux = http.NewServeMux()
		h.mux.Handle("POST /render", h.handlerFunc(h.serveRender))
		h.mux.Handle("POST /check", h.handlerFunc(h.serveCheck))
		h.mux.Handle("GET /preview", h.handlerFunc(h.servePreview))
	})

	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handlerFunc(fn func(http.ResponseWriter, *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var reqErr *requestError
		if errors.As(err, &reqErr) {
			http.Error(w, reqErr.Error(), http.StatusBadRequest)
			h.logger.Debug("Bad request", "url", r.URL.Redacted(), "error", err)
			return
		}

		if !websocket.IsWebSocketUpgrade(r) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	})
}

// requestError marks errors caused by a malformed request.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{fmt.Errorf(format, args...)}
}

func (h *Handler) serveRender(w http.ResponseWriter, r *http.Request) error {
	var req RenderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)).Decode(&req); err != nil {
		return badRequest("decode request: %w", err)
	}
	resp, err := render(req)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusUnprocessableEntity
		h.logger.Info("Unrenderable content", "path", resp.Path, "error", resp.Error)
	}
	return writeJSON(w, status, resp)
}

func render(req RenderRequest) (*RenderResponse, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, badRequest("%w", err)
	}

	r := RenderOrFallback(req.Content)
	resp := &RenderResponse{Text: r.Text, Context: r.Context}
	if !r.Fallback() {
		if format == FormatHTML {
			resp.HTML = string(r.HTML)
		}
		return resp, nil
	}

	resp.Error = r.Err.Error()
	var pe *element.ParseError
	if errors.As(r.Err, &pe) {
		resp.Path = pe.Path
	}
	return resp, nil
}

func (h *Handler) serveCheck(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	var opts CheckOptions
	filter, err := NewFilter(q.Get("filter"))
	if err != nil {
		return badRequest("%w", err)
	}
	opts.Filter = filter
	if v := q.Get("fail_fast"); v != "" {
		if opts.FailFast, err = strconv.ParseBool(v); err != nil {
			return badRequest("fail_fast: %w", err)
		}
	}

	corpus, err := LoadCorpus(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes), "request")
	if err != nil {
		return badRequest("%w", err)
	}

	res, err := Check(r.Context(), corpus, opts)
	if err != nil {
		return err
	}
	h.logger.Info("Checked corpus", "checked", res.Checked, "successes", res.Successes, "failures", len(res.Failures))

	resp := CheckResponse{Label: res.Label, Checked: res.Checked, Successes: res.Successes}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, FailureInfo{ID: f.ID, Error: f.Err.Error()})
	}
	return writeJSON(w, http.StatusOK, resp)
}

// servePreview renders every incoming frame until the client goes away.
func (h *Handler) servePreview(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Debug("Upgrade websocket", "error", err)
		return nil
	}
	defer ws.Close()
	ws.SetReadLimit(h.MaxBodyBytes)

	for {
		var req RenderRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read websocket message: %w", err)
		}

		resp, err := render(req)
		if err != nil {
			resp = &RenderResponse{Error: err.Error()}
		}
		if err := ws.WriteJSON(resp); err != nil {
			return fmt.Errorf("write websocket message: %w", err)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
