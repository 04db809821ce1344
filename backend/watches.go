package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
)

// ListWatches returns the full catalog.
func (c *Client) ListWatches(ctx context.Context) ([]Watch, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/watches", nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "[backend ListWatches]")
	}
	return gateway.Array[Watch](raw)
}

// GetWatch returns one catalog entry.
func (c *Client) GetWatch(ctx context.Context, watchID string) (Watch, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/watches/"+watchID, nil, false)
	if err != nil {
		return Watch{}, errors.Wrap(err, "[backend GetWatch]")
	}
	return gateway.Object[Watch](raw)
}

// CreateWatch adds a catalog entry (admin only).
func (c *Client) CreateWatch(ctx context.Context, input WatchInput) (Watch, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/watches", input, true)
	if err != nil {
		return Watch{}, errors.Wrap(err, "[backend CreateWatch]")
	}
	return gateway.Object[Watch](raw)
}

// UpdateWatch patches a catalog entry (admin only).
func (c *Client) UpdateWatch(ctx context.Context, watchID string, input WatchInput) (Watch, error) {
	raw, err := c.gw.Do(ctx, http.MethodPatch, "/watches/"+watchID, input, true)
	if err != nil {
		return Watch{}, errors.Wrap(err, "[backend UpdateWatch]")
	}
	return gateway.Object[Watch](raw)
}

// DeleteWatch removes a catalog entry (admin only).
func (c *Client) DeleteWatch(ctx context.Context, watchID string) error {
	if _, err := c.gw.Do(ctx, http.MethodDelete, "/watches/"+watchID, nil, true); err != nil {
		return errors.Wrap(err, "[backend DeleteWatch]")
	}
	return nil
}
