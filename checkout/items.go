// Package checkout derives pricing from rental dates, validates payment
// input, and drives the two-phase "create rental, then pay" submission. The
// legacy client carried two near-identical checkout components; this package
// is the single parametrized replacement (cart mode vs direct payment of an
// existing rental).
package checkout

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/backend"
)

// Item is one watch awaiting rental/payment submission.
//
// Invariant: Total == Watch.RentalDayPrice * RentalDays, restored after
// every date edit. RentalID is set only when the item represents an
// existing unpaid rental being paid directly.
type Item struct {
	WatchID    string        `json:"watchId"`
	Watch      backend.Watch `json:"watch"`
	RentalDays int           `json:"rentalDays"`
	Total      float64       `json:"total"`
	RentalID   string        `json:"rentalId,omitempty"`
}

// DateRange is the rental window for one item.
//
// Invariant: StartDate <= EndDate <= StartDate + 3 months, maintained by
// clamping edits rather than rejecting them.
type DateRange struct {
	WatchID   string    `json:"watchId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Line pairs an item with its date range.
type Line struct {
	Item  Item      `json:"item"`
	Dates DateRange `json:"dates"`
}

// Sheet is the state of one checkout view: the lines being purchased and
// whether their dates may still be edited (direct-payment mode shows dates
// read-only).
type Sheet struct {
	Lines    []Line `json:"lines"`
	Editable bool   `json:"editable"`
}

// NewLine builds a priced line for watch over [start, end], clamping the
// window first.
func NewLine(watch backend.Watch, start, end time.Time) Line {
	start = Midnight(start)
	end = ClampEndDate(start, end)
	days := RentalDays(start, end)
	return Line{
		Item: Item{
			WatchID:    watch.ID,
			Watch:      watch,
			RentalDays: days,
			Total:      watch.RentalDayPrice * float64(days),
		},
		Dates: DateRange{
			WatchID:   watch.ID,
			StartDate: start,
			EndDate:   end,
		},
	}
}

// DirectLine builds the single read-only line for paying an existing
// rental: days and total come from the server-side record.
func DirectLine(rental backend.Rental, watch backend.Watch, start, end time.Time) Line {
	line := Line{
		Item: Item{
			WatchID:    watch.ID,
			Watch:      watch,
			RentalDays: rental.RentalDays,
			Total:      rental.TotalPrice,
			RentalID:   rental.ID,
		},
		Dates: DateRange{
			WatchID:   watch.ID,
			StartDate: Midnight(start),
			EndDate:   Midnight(end),
		},
	}
	return line
}

// NewSheet returns an editable sheet over lines (the cart flow).
func NewSheet(lines []Line) *Sheet {
	return &Sheet{Lines: lines, Editable: true}
}

// NewDirectSheet returns a read-only sheet for direct payment.
func NewDirectSheet(line Line) *Sheet {
	return &Sheet{Lines: []Line{line}, Editable: false}
}

// EditDates applies a date edit to line index: the window is clamped to
// three months from the (possibly new) start, then days and the line total
// are recomputed. Only editable sheets accept edits.
func (s *Sheet) EditDates(index int, start, end time.Time) error {
	if !s.Editable {
		return errors.New("[checkout EditDates] dates are read-only for direct payment")
	}
	if index < 0 || index >= len(s.Lines) {
		return errors.Errorf("[checkout EditDates] no line at index %d", index)
	}

	line := &s.Lines[index]
	start = Midnight(start)
	end = ClampEndDate(start, end)

	line.Dates.StartDate = start
	line.Dates.EndDate = end
	line.Item.RentalDays = RentalDays(start, end)
	line.Item.Total = line.Item.Watch.RentalDayPrice * float64(line.Item.RentalDays)
	return nil
}

// TotalAmount is the aggregate order total, recomputed from line totals.
func (s *Sheet) TotalAmount() float64 {
	var total float64
	for _, line := range s.Lines {
		total += line.Item.Total
	}
	return total
}

// FormatMoney renders an amount the way the views display it: "$700.00".
func FormatMoney(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
