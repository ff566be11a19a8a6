// Package api exposes the dose-response pipeline over HTTP. Every endpoint
// is stateless: nothing is persisted, and concurrent requests share no
// mutable state, so the server needs no locking.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/monitoring"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server holds the default parameters offered alongside the example
// dataset. It has no other state.
type Server struct {
	defaults assay.Params
}

// NewServer creates an API server. defaults seed the example endpoint and
// the parameter fallbacks for the rendering endpoints.
func NewServer(defaults assay.Params) *Server {
	return &Server{defaults: defaults}
}

// ServeMux returns the API routes, ready to be mounted under a prefix.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ic50", s.computeIC50)
	mux.HandleFunc("/ic50/tsv", s.computeIC50TSV)
	mux.HandleFunc("/example", s.showExample)
	mux.HandleFunc("/plot", s.renderPlot)
	mux.HandleFunc("/chart", s.renderChart)
	return mux
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
