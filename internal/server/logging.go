package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

func withLogging(logger *log.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Printf("REQ %s %s Host=%s UA=%q From=%s Status=%d Bytes=%d",
			r.Method, r.URL.String(), r.Host, r.UserAgent(), r.RemoteAddr, ww.Status(), ww.BytesWritten())
	})
}
