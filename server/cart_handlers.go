package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chronoluxe/rental-frontend/checkout"
)

// CartData is the cart page model.
type CartData struct {
	viewBase
	Lines []cartLineView
	Total string
}

type cartLineView struct {
	checkout.Line
	StartDate string
	EndDate   string
	LineTotal string
}

// CartHandler renders the cart (GET /cart).
func (s *Server) CartHandler() http.HandlerFunc {
	tmpl := mustParse("cart.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sheet := browserFrom(r).Cart.Sheet()

		data := CartData{
			viewBase: s.baseData(r),
			Lines:    cartLineViews(sheet.Lines),
			Total:    checkout.FormatMoney(sheet.TotalAmount()),
		}
		data.Error = r.URL.Query().Get("error")
		render(w, tmpl, data)
	}
}

func cartLineViews(lines []checkout.Line) []cartLineView {
	views := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, cartLineView{
			Line:      line,
			StartDate: checkout.FormatDate(line.Dates.StartDate),
			EndDate:   checkout.FormatDate(line.Dates.EndDate),
			LineTotal: checkout.FormatMoney(line.Item.Total),
		})
	}
	return views
}

// CartAddHandler puts a watch in the cart (POST /cart/add) over the posted
// or default date window.
func (s *Server) CartAddHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		watch, err := s.backend.GetWatch(r.Context(), r.FormValue("watch_id"))
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				http.Redirect(w, r, RouteCart+"?error="+url.QueryEscape(message), http.StatusSeeOther)
			}
			return
		}

		start, end := s.formDates(r)
		if err := browser.Cart.Add(watch, start, end); err != nil {
			log.Err(err).Msg("Failed to add cart line")
		}
		http.Redirect(w, r, RouteCart, http.StatusSeeOther)
	}
}

// CartRemoveHandler drops a line (POST /cart/remove).
func (s *Server) CartRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		if err := browserFrom(r).Cart.Remove(r.FormValue("watch_id")); err != nil {
			log.Err(err).Msg("Failed to remove cart line")
		}
		http.Redirect(w, r, RouteCart, http.StatusSeeOther)
	}
}

// CartDatesHandler re-dates a line (POST /cart/dates). Out-of-range windows
// are clamped, not rejected; the page simply shows the corrected dates.
func (s *Server) CartDatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		start, end := s.formDates(r)
		if err := browserFrom(r).Cart.SetDates(r.FormValue("watch_id"), start, end); err != nil {
			log.Err(err).Msg("Failed to update cart dates")
		}
		http.Redirect(w, r, RouteCart, http.StatusSeeOther)
	}
}

// formDates reads start_date/end_date fields, falling back to the default
// week when either is missing or malformed.
func (s *Server) formDates(r *http.Request) (start, end time.Time) {
	defaultStart, defaultEnd := checkout.DefaultRange(s.nowTime())

	start, err := checkout.ParseDate(r.FormValue("start_date"))
	if err != nil {
		start = defaultStart
	}
	end, err = checkout.ParseDate(r.FormValue("end_date"))
	if err != nil {
		end = defaultEnd
	}
	return start, end
}
