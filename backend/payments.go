package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
)

// CreatePayment settles a rental.
func (c *Client) CreatePayment(ctx context.Context, request PaymentRequest) (Payment, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/payments", request, true)
	if err != nil {
		return Payment{}, errors.Wrap(err, "[backend CreatePayment]")
	}
	return gateway.Object[Payment](raw)
}

// ListMyPayments returns the current user's payments.
func (c *Client) ListMyPayments(ctx context.Context) ([]Payment, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/payments", nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "[backend ListMyPayments]")
	}
	return gateway.Array[Payment](raw)
}
