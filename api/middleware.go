package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func RequestID(next http.Handler) http.Handler {
	return middleware.RequestID(next)
}

func RealIP(next http.Handler) http.Handler {
	return middleware.RealIP(next)
}

func Recoverer(next http.Handler) http.Handler {
	return middleware.Recoverer(next)
}

// Logger writes one line per request. The query string is left out so
// diagnostics flags and relay parameters never reach the log.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Printf("[HTTP] %s %s %d %dB %s from %s (request %s)",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), r.RemoteAddr,
			middleware.GetReqID(r.Context()))
	})
}
