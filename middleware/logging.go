package middleware

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// NewLogger builds the application logger. Records use the ECS field layout
// so they line up with the request logs.
func NewLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env == "development")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "overtime-audit"),
		slog.String("env", env),
	)
}

// RequestLogger logs one line per request and recovers panics.
func RequestLogger(logger *slog.Logger, level slog.Level) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:         level,
		Schema:        httplog.SchemaECS,
		RecoverPanics: true,
	})
}
