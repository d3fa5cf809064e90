package msgcontent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHandler_Render(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       RenderResponse
	}{
		{
			name:       "text",
			body:       `{"content": "<p>hi</p>"}`,
			wantStatus: http.StatusOK,
			want:       RenderResponse{Text: "hi\n\n"},
		},
		{
			name:       "html",
			body:       `{"content": "<p>hi<br>there</p>", "format": "html"}`,
			wantStatus: http.StatusOK,
			want:       RenderResponse{Text: "hi \n there\n\n", HTML: "<p>hi<br/>there</p>"},
		},
		{
			name:       "fallback",
			body:       `{"content": "<p><span class=\"bogus\">x</span></p>"}`,
			wantStatus: http.StatusUnprocessableEntity,
			want: RenderResponse{
				Text:    "x",
				Error:   `body/p[0]/span[0]: unsupported tag: unexpected span class "bogus"`,
				Path:    "body/p[0]/span[0]",
				Context: `<p><span class="bogus">x</span></p>`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handlerErr error
			h := &Handler{OnError: func(r *http.Request, err error) { handlerErr = err }}

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(tt.body)))

			require.NoError(t, handlerErr)
			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var got RenderResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		method, url, body string
		wantStatus        int
	}{
		{http.MethodPost, "/render", `{"content":`, http.StatusBadRequest},
		{http.MethodPost, "/render", `{"content": "<p>x</p>", "format": "pdf"}`, http.StatusBadRequest},
		{http.MethodPost, "/check?filter=sender_id+%2B", `[]`, http.StatusBadRequest},
		{http.MethodPost, "/check?fail_fast=maybe", `[]`, http.StatusBadRequest},
		{http.MethodGet, "/render", ``, http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", ``, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			h := &Handler{}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body)))
			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestHandler_BodyLimit(t *testing.T) {
	h := &Handler{MaxBodyBytes: 16}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"content": "<p>far too long</p>"}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Check(t *testing.T) {
	body := `[
		{"id": 1, "sender_id": 7, "content": "<p>ok</p>"},
		{"id": 2, "sender_id": 7, "content": "<p><span class=\"bogus\">x</span></p>"},
		{"id": 3, "sender_id": 8, "content": "<p>ok</p>"}
	]`
	h := &Handler{}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/check?filter=sender_id+%3D%3D+7", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var got CheckResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, CheckResponse{
		Label:     "request",
		Checked:   2,
		Successes: 1,
		Failures: []FailureInfo{
			{ID: 2, Error: `body/p[0]/span[0]: unsupported tag: unexpected span class "bogus"`},
		},
	}, got)
}

func TestHandler_Preview(t *testing.T) {
	srv := httptest.NewServer(&Handler{})
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer ws.Close()

	frames := []struct {
		req  RenderRequest
		want RenderResponse
	}{
		{RenderRequest{Content: "<p>one</p>"}, RenderResponse{Text: "one\n\n"}},
		{RenderRequest{Content: "<p>two</p>", Format: "html"}, RenderResponse{Text: "two\n\n", HTML: "<p>two</p>"}},
		{RenderRequest{Content: "<p>x</p>", Format: "pdf"}, RenderResponse{Error: `unknown format "pdf"`}},
	}
	for _, f := range frames {
		require.NoError(t, ws.WriteJSON(f.req))
		var got RenderResponse
		require.NoError(t, ws.ReadJSON(&got))
		require.Equal(t, f.want, got)
	}

	require.NoError(t, ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}
