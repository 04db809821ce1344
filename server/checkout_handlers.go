package server

import (
	"net/http"

	"github.com/chronoluxe/rental-frontend/checkout"
	"github.com/chronoluxe/rental-frontend/gateway"
	interrors "github.com/chronoluxe/rental-frontend/internal/errors"
)

// CheckoutData is the checkout page model: the order lines, the payment
// form state, and any per-field validation messages.
type CheckoutData struct {
	viewBase
	Lines       []cartLineView
	Total       string
	Editable    bool
	RentalID    string // set in direct-payment mode
	Method      string
	Details     checkout.PaymentDetails
	FieldErrors checkout.FieldErrors
}

// CheckoutPageHandler renders checkout (GET /checkout). With ?rental=<id>
// it pays an existing rental: dates are read-only and an already-paid
// rental goes straight to the history page instead.
func (s *Server) CheckoutPageHandler() http.HandlerFunc {
	tmpl := mustParse("checkout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sheet, rentalID, ok := s.checkoutSheet(w, r, r.URL.Query().Get("rental"))
		if !ok {
			return
		}

		render(w, tmpl, CheckoutData{
			viewBase: s.baseData(r),
			Lines:    cartLineViews(sheet.Lines),
			Total:    checkout.FormatMoney(sheet.TotalAmount()),
			Editable: sheet.Editable,
			RentalID: rentalID,
			Method:   string(checkout.MethodCreditCard),
		})
	}
}

// CheckoutSubmitHandler processes the payment form (POST /checkout).
// Validation failures re-render the form with every field message; a
// submission already in flight is reported rather than double-charged; an
// expired token drops the session and returns to login.
func (s *Server) CheckoutSubmitHandler() http.HandlerFunc {
	tmpl := mustParse("checkout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		sheet, rentalID, ok := s.checkoutSheet(w, r, r.FormValue("rental"))
		if !ok {
			return
		}

		method := checkout.MethodCreditCard
		if r.FormValue("payment_method") == string(checkout.MethodPayPal) {
			method = checkout.MethodPayPal
		}
		details := checkout.PaymentDetails{
			CardNumber: checkout.FormatCardNumber(r.FormValue("card_number")),
			CardName:   r.FormValue("card_name"),
			ExpiryDate: checkout.FormatExpiry(r.FormValue("expiry_date")),
			CVV:        r.FormValue("cvv"),
		}

		data := CheckoutData{
			viewBase: s.baseData(r),
			Lines:    cartLineViews(sheet.Lines),
			Total:    checkout.FormatMoney(sheet.TotalAmount()),
			Editable: sheet.Editable,
			RentalID: rentalID,
			Method:   string(method),
			Details:  details,
		}

		order, err := browser.Processor.Submit(r.Context(), sheet, method, details)
		if err != nil {
			var fieldErrs checkout.FieldErrors
			switch {
			case interrors.As(err, &fieldErrs):
				data.FieldErrors = fieldErrs
			case interrors.Is(err, interrors.ErrSubmissionInFlight):
				data.Error = "Your order is already being processed."
			case gateway.IsUnauthorized(err):
				browser.Session.Invalidate()
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			default:
				data.Error = gateway.UserMessage(err)
			}
			render(w, tmpl, data)
			return
		}

		browser.RememberOrder(order)
		http.Redirect(w, r, RouteConfirmation, http.StatusSeeOther)
	}
}

// checkoutSheet builds the sheet for either mode. Returns ok=false when it
// already redirected (empty cart, missing or already-paid rental, 401).
func (s *Server) checkoutSheet(w http.ResponseWriter, r *http.Request, rentalID string) (*checkout.Sheet, string, bool) {
	browser := browserFrom(r)

	if rentalID == "" {
		sheet := browser.Cart.Sheet()
		if len(sheet.Lines) == 0 {
			http.Redirect(w, r, RouteCart, http.StatusSeeOther)
			return nil, "", false
		}
		return sheet, "", true
	}

	rental, err := s.backend.GetRental(r.Context(), rentalID)
	if err != nil {
		if s.handleBackendError(w, r, browser.Session, err) != "" {
			http.Redirect(w, r, RouteRentals, http.StatusSeeOther)
		}
		return nil, "", false
	}
	if rental.IsPaid {
		http.Redirect(w, r, RouteRentals, http.StatusSeeOther)
		return nil, "", false
	}

	watch, err := s.backend.GetWatch(r.Context(), rental.WatchID)
	if err != nil {
		if s.handleBackendError(w, r, browser.Session, err) != "" {
			http.Redirect(w, r, RouteRentals, http.StatusSeeOther)
		}
		return nil, "", false
	}

	start, err := checkout.ParseInstant(rental.StartDate)
	if err != nil {
		start, _ = checkout.DefaultRange(s.nowTime())
	}
	end, err := checkout.ParseInstant(rental.EndDate)
	if err != nil {
		end = start.AddDate(0, 0, rental.RentalDays)
	}

	return checkout.NewDirectSheet(checkout.DirectLine(rental, watch, start, end)), rentalID, true
}

// ConfirmationData is the order confirmation model.
type ConfirmationData struct {
	viewBase
	Reference string
	Method    string
	Total     string
	Receipts  []receiptView
}

type receiptView struct {
	WatchID  string
	RentalID string
	Amount   string
	Status   string
}

// ConfirmationHandler renders the most recent order (GET /confirmation).
// With nothing to confirm it falls back to the catalog.
func (s *Server) ConfirmationHandler() http.HandlerFunc {
	tmpl := mustParse("confirmation.html")

	return func(w http.ResponseWriter, r *http.Request) {
		order := browserFrom(r).LastOrder()
		if order == nil {
			http.Redirect(w, r, RouteCatalog, http.StatusSeeOther)
			return
		}

		receipts := make([]receiptView, 0, len(order.Receipts))
		for _, receipt := range order.Receipts {
			receipts = append(receipts, receiptView{
				WatchID:  receipt.Rental.WatchID,
				RentalID: receipt.Rental.ID,
				Amount:   checkout.FormatMoney(receipt.Payment.Amount),
				Status:   receipt.Rental.Status,
			})
		}

		render(w, tmpl, ConfirmationData{
			viewBase:  s.baseData(r),
			Reference: order.Reference,
			Method:    string(order.Method),
			Total:     checkout.FormatMoney(order.Total),
			Receipts:  receipts,
		})
	}
}
