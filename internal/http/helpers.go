package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"carteira/internal/core"
)

// writeJSON serializes v with the standard JSON content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// apiError writes an error payload with a user-facing message.
func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"erro": msg})
}

// writeCachedJSON replays a payload produced by a previous chart request.
func writeCachedJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		slog.Error("Failed to write cached response", "error", err)
	}
}

// parseFilter builds a core.Filter from query parameters. Unknown kinds are
// skipped, malformed dates leave the bound open. When neither bound is given
// the filter stays unbounded so undated rows remain visible.
func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()

	var f core.Filter
	for _, raw := range splitParams(q["tipo"]) {
		kind, err := core.ParseKind(raw)
		if err != nil {
			continue
		}
		f.Kinds = append(f.Kinds, kind)
	}
	for _, raw := range splitParams(q["categoria"]) {
		f.Categories = append(f.Categories, raw)
	}
	if de := q.Get("de"); de != "" {
		f.From = core.ParseDate(de)
	}
	if ate := q.Get("ate"); ate != "" {
		f.To = core.ParseDate(ate)
	}
	return f
}

// splitParams flattens repeated params and comma-separated lists.
func splitParams(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// sanitizeInput trims whitespace and strips control characters from
// user-provided text fields.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// generateRequestID returns a random identifier for request tracing.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
