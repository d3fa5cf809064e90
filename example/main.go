package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/dpotapov/go-msgcontent"
)

func LoggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

// previewPage is a bare page that sends the textarea content over the preview
// websocket on every keystroke and shows the rendered text.
const previewPage = `<!DOCTYPE html>
<html>
<body>
<textarea id="src" rows="12" cols="80"><p>Hello <strong>world</strong></p></textarea>
<pre id="out"></pre>
<script>
const ws = new WebSocket("ws://" + location.host + "/api/preview");
const src = document.getElementById("src");
const out = document.getElementById("out");
ws.onmessage = (e) => {
  const r = JSON.parse(e.data);
  out.textContent = r.error ? r.error + "\n\n" + r.text : r.text;
};
ws.onopen = () => ws.send(JSON.stringify({content: src.value}));
src.oninput = () => ws.send(JSON.stringify({content: src.value}));
</script>
</body>
</html>
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	mh := &msgcontent.Handler{
		OnError: nil,
		Logger:  logger,
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", mh))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(previewPage))
	})

	logger.Info("Starting HTTP server", "address", "http://localhost:8080")

	err := http.ListenAndServe(":8080", LoggerMiddleware(mux, logger))

	logger.Error("HTTP server error", "error", err)
}
