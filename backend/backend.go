// Package backend provides typed clients for the remote rental service's
// REST resources, layered over the gateway. The frontend never owns these
// records' lifecycle; every value here is a cached copy of what the backend
// last returned.
package backend

import (
	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
)

// Client groups the typed resource operations.
type Client struct {
	gw *gateway.Client
}

// New creates a backend client over an already-configured gateway.
func New(gw *gateway.Client) (*Client, error) {
	if gw == nil {
		return nil, errors.New("[backend New] gateway is required")
	}
	return &Client{gw: gw}, nil
}
