package server

import (
	"encoding/json"
	"net/http"
)

const problemBase = "https://funaging.org/problems/"

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type     string `json:"type" example:"https://funaging.org/problems/not-found"`
	Title    string `json:"title" example:"Not Found"`
	Status   int    `json:"status" example:"404"`
	Detail   string `json:"detail,omitempty" example:"no such endpoint"`
	Instance string `json:"instance,omitempty" example:"/api/v1/nope"`
}

// WriteProblem writes p as application/problem+json.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeProblem(w http.ResponseWriter, status int, slug, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     problemBase + slug,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem.
func NotFound(w http.ResponseWriter, detail, instance string) {
	writeProblem(w, http.StatusNotFound, "not-found", detail, instance)
}

// InternalError writes a 500 problem.
func InternalError(w http.ResponseWriter, detail, instance string) {
	writeProblem(w, http.StatusInternalServerError, "internal-error", detail, instance)
}

// RateLimited writes a 429 problem.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	writeProblem(w, http.StatusTooManyRequests, "rate-limited", detail, instance)
}

// ReadOnly writes the 405 problem returned for writes in read-only mode.
func ReadOnly(w http.ResponseWriter, detail, instance string) {
	writeProblem(w, http.StatusMethodNotAllowed, "read-only", detail, instance)
}
