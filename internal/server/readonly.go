package server

import "net/http"

// ReadOnlyMiddleware serves kiosk deployments: only GET, HEAD and OPTIONS
// reach the API, so themes can be read and streamed but never changed.
func ReadOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			ReadOnly(w, "server is read-only", r.URL.Path)
		}
	})
}
