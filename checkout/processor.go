package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/backend"
	interrors "github.com/chronoluxe/rental-frontend/internal/errors"
)

// CollectionMode is the fixed collection mode sent with every rental
// creation.
const CollectionMode = "pickup"

// RentalAPI is the slice of the backend the processor creates and re-fetches
// rentals through.
type RentalAPI interface {
	CreateRental(ctx context.Context, request backend.RentalRequest) (backend.Rental, error)
	GetRental(ctx context.Context, rentalID string) (backend.Rental, error)
}

// PaymentAPI settles rentals.
type PaymentAPI interface {
	CreatePayment(ctx context.Context, request backend.PaymentRequest) (backend.Payment, error)
}

// CartClearer empties the transient cart after a successful order.
type CartClearer interface {
	Clear() error
}

// Receipt is one settled line: the canonical rental state and its payment.
type Receipt struct {
	Rental  backend.Rental
	Payment backend.Payment
}

// Order is the confirmation view's data. Reference is client-generated, a
// display convenience only, never authoritative.
type Order struct {
	Reference string
	Receipts  []Receipt
	Total     float64
	Method    PaymentMethod
}

// Processor drives checkout submission.
type Processor struct {
	rentals  RentalAPI
	payments PaymentAPI
	cart     CartClearer
	nowTime  func() time.Time // nowTime function (injectable for testing)
	newRef   func() string

	mu         sync.Mutex
	processing bool
}

// ProcessorOption defines a function type to modify the Processor instance.
type ProcessorOption func(*Processor)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.nowTime = nowFunc
	}
}

// WithCart wires the cart to be cleared after a successful submission.
func WithCart(cart CartClearer) ProcessorOption {
	return func(p *Processor) {
		p.cart = cart
	}
}

// WithReference sets the order-reference generator (primarily for testing).
func WithReference(newRef func() string) ProcessorOption {
	return func(p *Processor) {
		p.newRef = newRef
	}
}

// NewProcessor initializes a Processor with required dependencies.
func NewProcessor(rentals RentalAPI, payments PaymentAPI, options ...ProcessorOption) (*Processor, error) {
	if rentals == nil {
		return nil, errors.New("[NewProcessor] rentals API is required")
	}
	if payments == nil {
		return nil, errors.New("[NewProcessor] payments API is required")
	}

	p := &Processor{
		rentals:  rentals,
		payments: payments,
		nowTime:  time.Now,
		newRef:   newOrderReference,
	}
	for _, opt := range options {
		opt(p)
	}
	return p, nil
}

// Submit runs the submission protocol over the sheet's lines:
//
//  1. Credit-card submissions re-run validation first; any failure aborts
//     before a single network call, surfacing every field error.
//  2. Lines are processed strictly in order. A line carrying a rental id
//     (direct payment) is paid and then re-fetched for canonical state; a
//     fresh line first creates its rental, then pays it.
//  3. Success clears the cart and returns the confirmation Order.
//  4. Any failure aborts the remaining lines and leaves the caller's state
//     untouched so the user can retry; nothing is retried automatically.
//
// The processing guard is taken synchronously before any suspend point, so
// a second Submit while one is outstanding fails with
// ErrSubmissionInFlight instead of double-charging.
func (p *Processor) Submit(ctx context.Context, sheet *Sheet, method PaymentMethod, details PaymentDetails) (*Order, error) {
	if method == MethodCreditCard {
		if fieldErrs := details.Validate(p.nowTime()); fieldErrs != nil {
			return nil, fieldErrs
		}
	}

	if !p.begin() {
		return nil, interrors.ErrSubmissionInFlight
	}
	defer p.end()

	receipts := make([]Receipt, 0, len(sheet.Lines))
	for _, line := range sheet.Lines {
		receipt, err := p.submitLine(ctx, line, method)
		if err != nil {
			// Both the sentinel and the cause stay matchable: callers test
			// ErrSubmissionFailed for messaging and the gateway error for 401
			return nil, fmt.Errorf("%w: %w", interrors.ErrSubmissionFailed, err)
		}
		receipts = append(receipts, receipt)
	}

	if p.cart != nil {
		if err := p.cart.Clear(); err != nil {
			// The order went through; a stale cart is recoverable
			return nil, errors.Wrap(err, "[Processor Submit] clear cart")
		}
	}

	return &Order{
		Reference: p.newRef(),
		Receipts:  receipts,
		Total:     sheet.TotalAmount(),
		Method:    method,
	}, nil
}

func (p *Processor) submitLine(ctx context.Context, line Line, method PaymentMethod) (Receipt, error) {
	// Direct payment: the rental already exists; pay it, then re-fetch the
	// canonical record. The two calls are causally ordered, never parallel.
	if line.Item.RentalID != "" {
		payment, err := p.payments.CreatePayment(ctx, backend.PaymentRequest{
			RentalID:      line.Item.RentalID,
			Amount:        line.Item.Total,
			PaymentMethod: string(method),
		})
		if err != nil {
			return Receipt{}, errors.Wrap(err, "[Processor submitLine] pay existing rental")
		}
		rental, err := p.rentals.GetRental(ctx, line.Item.RentalID)
		if err != nil {
			return Receipt{}, errors.Wrap(err, "[Processor submitLine] re-fetch rental")
		}
		return Receipt{Rental: rental, Payment: payment}, nil
	}

	rental, err := p.rentals.CreateRental(ctx, backend.RentalRequest{
		WatchID:        line.Item.WatchID,
		RentalDays:     line.Item.RentalDays,
		StartDate:      line.Dates.StartDate.Format(time.RFC3339),
		EndDate:        line.Dates.EndDate.Format(time.RFC3339),
		TotalPrice:     line.Item.Total,
		CollectionMode: CollectionMode,
	})
	if err != nil {
		return Receipt{}, errors.Wrap(err, "[Processor submitLine] create rental")
	}

	payment, err := p.payments.CreatePayment(ctx, backend.PaymentRequest{
		RentalID:      rental.ID,
		Amount:        line.Item.Total,
		PaymentMethod: string(method),
	})
	if err != nil {
		return Receipt{}, errors.Wrap(err, "[Processor submitLine] pay new rental")
	}
	return Receipt{Rental: rental, Payment: payment}, nil
}

// begin takes the processing guard; it must happen before any suspend point.
func (p *Processor) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processing {
		return false
	}
	p.processing = true
	return true
}

func (p *Processor) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processing = false
}

func newOrderReference() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
