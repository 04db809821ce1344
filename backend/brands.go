package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
)

// ListBrands returns every brand.
func (c *Client) ListBrands(ctx context.Context) ([]Brand, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/brands", nil, false)
	if err != nil {
		return nil, errors.Wrap(err, "[backend ListBrands]")
	}
	return gateway.Array[Brand](raw)
}

// CreateBrand adds a brand (admin only).
func (c *Client) CreateBrand(ctx context.Context, input BrandInput) (Brand, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/brands", input, true)
	if err != nil {
		return Brand{}, errors.Wrap(err, "[backend CreateBrand]")
	}
	return gateway.Object[Brand](raw)
}

// UpdateBrand patches a brand (admin only).
func (c *Client) UpdateBrand(ctx context.Context, brandID string, input BrandInput) (Brand, error) {
	raw, err := c.gw.Do(ctx, http.MethodPatch, "/brands/"+brandID, input, true)
	if err != nil {
		return Brand{}, errors.Wrap(err, "[backend UpdateBrand]")
	}
	return gateway.Object[Brand](raw)
}

// DeleteBrand removes a brand (admin only).
func (c *Client) DeleteBrand(ctx context.Context, brandID string) error {
	if _, err := c.gw.Do(ctx, http.MethodDelete, "/brands/"+brandID, nil, true); err != nil {
		return errors.Wrap(err, "[backend DeleteBrand]")
	}
	return nil
}
