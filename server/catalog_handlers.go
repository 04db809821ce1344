package server

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/checkout"
)

// CatalogData is the home page model: the watch grid plus the brand filter
// bar. Both loads must succeed before anything derived is shown.
type CatalogData struct {
	viewBase
	Watches       []backend.Watch
	Brands        []backend.Brand
	SelectedBrand string
}

// CatalogHandler renders the watch grid (GET /). Watches and brands load
// concurrently; neither depends on the other.
func (s *Server) CatalogHandler() http.HandlerFunc {
	tmpl := mustParse("catalog.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		var (
			watches []backend.Watch
			brands  []backend.Brand
		)
		group, ctx := errgroup.WithContext(r.Context())
		group.Go(func() error {
			var err error
			watches, err = s.backend.ListWatches(ctx)
			return err
		})
		group.Go(func() error {
			var err error
			brands, err = s.backend.ListBrands(ctx)
			return err
		})

		data := CatalogData{viewBase: s.baseData(r), SelectedBrand: r.URL.Query().Get("brand")}
		if err := group.Wait(); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		data.Brands = brands
		data.Watches = filterByBrand(watches, brands, data.SelectedBrand)
		render(w, tmpl, data)
	}
}

// filterByBrand narrows the grid to one brand name; an unknown or empty
// selection shows everything.
func filterByBrand(watches []backend.Watch, brands []backend.Brand, selected string) []backend.Watch {
	if selected == "" {
		return watches
	}
	brandID := ""
	for _, brand := range brands {
		if brand.Name == selected {
			brandID = brand.ID
			break
		}
	}
	if brandID == "" {
		return watches
	}
	filtered := make([]backend.Watch, 0, len(watches))
	for _, watch := range watches {
		if watch.BrandID == brandID {
			filtered = append(filtered, watch)
		}
	}
	return filtered
}

// WatchDetailData is the detail page model, including the default rental
// window the date pickers start from.
type WatchDetailData struct {
	viewBase
	Watch     backend.Watch
	StartDate string
	EndDate   string
	Days      int
	Total     string
}

// WatchDetailHandler renders one watch (GET /watches/{id}) with a priced
// default week.
func (s *Server) WatchDetailHandler() http.HandlerFunc {
	tmpl := mustParse("watch.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		watch, err := s.backend.GetWatch(r.Context(), r.PathValue("id"))
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				http.Error(w, message, http.StatusNotFound)
			}
			return
		}

		start, end := checkout.DefaultRange(s.nowTime())
		days := checkout.RentalDays(start, end)
		render(w, tmpl, WatchDetailData{
			viewBase:  s.baseData(r),
			Watch:     watch,
			StartDate: checkout.FormatDate(start),
			EndDate:   checkout.FormatDate(end),
			Days:      days,
			Total:     checkout.FormatMoney(watch.RentalDayPrice * float64(days)),
		})
	}
}
