package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/checkout"
)

// RentalsData is the history page model: the user's rentals joined with
// their payments. Both loads must land before anything derived renders.
type RentalsData struct {
	viewBase
	Rentals []rentalView
}

type rentalView struct {
	backend.Rental
	Total      string
	Paid       bool
	PaidAmount string
	CanPay     bool
	CanCancel  bool
	StartDay   string
	EndDay     string
}

// RentalsHandler renders rental history (GET /rentals). Rentals and
// payments are independent and fetched concurrently.
func (s *Server) RentalsHandler() http.HandlerFunc {
	tmpl := mustParse("rentals.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		var (
			rentals  []backend.Rental
			payments []backend.Payment
		)
		group, ctx := errgroup.WithContext(r.Context())
		group.Go(func() error {
			var err error
			rentals, err = s.backend.ListMyRentals(ctx)
			return err
		})
		group.Go(func() error {
			var err error
			payments, err = s.backend.ListMyPayments(ctx)
			return err
		})

		data := RentalsData{viewBase: s.baseData(r)}
		if err := group.Wait(); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		paidAmounts := make(map[string]float64, len(payments))
		for _, payment := range payments {
			paidAmounts[payment.RentalID] += payment.Amount
		}

		for _, rental := range rentals {
			view := rentalView{
				Rental: rental,
				Total:  checkout.FormatMoney(rental.TotalPrice),
				Paid:   rental.IsPaid,
				CanPay: !rental.IsPaid && rental.Status != backend.RentalStatusCancelled,
				CanCancel: rental.Status == backend.RentalStatusPending ||
					rental.Status == backend.RentalStatusActive,
			}
			if amount, ok := paidAmounts[rental.ID]; ok {
				view.PaidAmount = checkout.FormatMoney(amount)
			}
			if day, err := checkout.ParseInstant(rental.StartDate); err == nil {
				view.StartDay = checkout.FormatDate(day)
			}
			if day, err := checkout.ParseInstant(rental.EndDate); err == nil {
				view.EndDay = checkout.FormatDate(day)
			}
			data.Rentals = append(data.Rentals, view)
		}
		render(w, tmpl, data)
	}
}

// RentalCancelHandler cancels a rental (POST /rentals/{id}/cancel) and
// returns to the history page.
func (s *Server) RentalCancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := s.backend.CancelRental(r.Context(), r.PathValue("id")); err != nil {
			if s.handleBackendError(w, r, browser.Session, err) == "" {
				return
			}
			log.Err(err).Str("rental_id", r.PathValue("id")).Msg("Failed to cancel rental")
		}
		http.Redirect(w, r, RouteRentals, http.StatusSeeOther)
	}
}
