package config

import (
	"time"
)

// BackendConfig describes how to reach the remote rental backend.
type BackendConfig interface {
	GetBackendBaseURL() string
	GetRequestTimeout() time.Duration
}

const (
	backendURLVar     = "BACKEND_BASE_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT_SECONDS"
)

type Backend struct{}

var _ BackendConfig = Backend{}

// GetBackendBaseURL returns the base URL of the rental backend REST API,
// including the API prefix (e.g. "https://api.example.com/api").
func (Backend) GetBackendBaseURL() string {
	return GetEnv(backendURLVar, "http://localhost:5000/api")
}

// GetRequestTimeout is the wall-clock budget for a single backend call.
// The underlying request is not aborted when it fires; the caller just
// stops waiting for it.
func (Backend) GetRequestTimeout() time.Duration {
	seconds := GetEnv(requestTimeoutVar, "12")
	d, err := time.ParseDuration(seconds + "s")
	if err != nil {
		return 12 * time.Second
	}
	return d
}
