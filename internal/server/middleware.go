package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/observability"
)

// requestLogFormatter adapts chi's request logger to the server's charm
// logger and the HTTP observability hooks.
type requestLogFormatter struct {
	logger *log.Logger
}

func (f requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
	return &requestLogEntry{logger: f.logger, r: r}
}

type requestLogEntry struct {
	logger *log.Logger
	r      *http.Request
}

// route is the chi pattern, so user IDs and scopes do not explode
// cardinality. It is only complete once routing has finished.
func (e *requestLogEntry) route() string {
	if rctx := chi.RouteContext(e.r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return e.r.URL.Path
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	if status == 0 {
		status = http.StatusOK
	}
	route := e.route()
	observability.HTTP().OnResponse(e.r.Context(), e.r.Method, route, status, elapsed)
	e.logger.Debug("request",
		"id", middleware.GetReqID(e.r.Context()),
		"method", e.r.Method,
		"route", route,
		"status", status,
		"bytes", bytes,
		"duration", elapsed.Round(time.Microsecond))
}

func (e *requestLogEntry) Panic(v any, stack []byte) {
	e.logger.Error("handler panic",
		"id", middleware.GetReqID(e.r.Context()),
		"method", e.r.Method,
		"path", e.r.URL.Path,
		"panic", fmt.Sprint(v),
		"stack", string(stack))
}

// panicBody turns the bare 500 written by chi's Recoverer into the API's
// {code, message} error body.
type panicBody struct {
	http.ResponseWriter
}

func (p panicBody) WriteHeader(status int) {
	writeJSON(p.ResponseWriter, status, errorBody{Code: errors.ErrCodeInternal, Message: "internal error"})
}

// recoverer runs chi's Recoverer with the handler writing straight to w,
// so only the recovery response goes through panicBody.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		})
		middleware.Recoverer(inner).ServeHTTP(panicBody{w}, r)
	})
}
