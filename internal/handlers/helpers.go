package handlers

import (
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"carechat-backend/internal/models"
)

// requestMeta extracts the requester attributes that audit entries record.
// RemoteAddr is used as-is when it has no port (e.g. behind some proxies).
func requestMeta(r *http.Request) models.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return models.RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// idParam parses a numeric URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// urlParam returns a string URL parameter.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
