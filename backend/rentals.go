package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
)

// CreateRental creates an unpaid rental from a checkout line.
func (c *Client) CreateRental(ctx context.Context, request RentalRequest) (Rental, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/rentals", request, true)
	if err != nil {
		return Rental{}, errors.Wrap(err, "[backend CreateRental]")
	}
	return gateway.Object[Rental](raw)
}

// GetRental fetches the canonical server-side state of one rental.
func (c *Client) GetRental(ctx context.Context, rentalID string) (Rental, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/rentals/"+rentalID, nil, true)
	if err != nil {
		return Rental{}, errors.Wrap(err, "[backend GetRental]")
	}
	return gateway.Object[Rental](raw)
}

// ListMyRentals returns the current user's rentals.
func (c *Client) ListMyRentals(ctx context.Context) ([]Rental, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/rentals", nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "[backend ListMyRentals]")
	}
	return gateway.Array[Rental](raw)
}

// SetRentalStatus patches a rental's status (admin only).
func (c *Client) SetRentalStatus(ctx context.Context, rentalID, status string) error {
	body := map[string]string{"status": status}
	if _, err := c.gw.Do(ctx, http.MethodPatch, "/rentals/"+rentalID+"/status", body, true); err != nil {
		return errors.Wrap(err, "[backend SetRentalStatus]")
	}
	return nil
}

// CancelRental cancels an unpaid rental.
func (c *Client) CancelRental(ctx context.Context, rentalID string) error {
	if _, err := c.gw.Do(ctx, http.MethodPatch, "/rentals/"+rentalID+"/cancel", nil, true); err != nil {
		return errors.Wrap(err, "[backend CancelRental]")
	}
	return nil
}
