package server

import (
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/users"
)

// AdminWatchesData is the admin catalog screen model.
type AdminWatchesData struct {
	viewBase
	Watches []backend.Watch
	Brands  []backend.Brand
}

// AdminWatchesHandler renders the catalog management screen
// (GET /admin/watches).
func (s *Server) AdminWatchesHandler() http.HandlerFunc {
	tmpl := mustParse("admin_watches.html")

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

		data := AdminWatchesData{viewBase: s.baseData(r)}
		data.Error = r.URL.Query().Get("error")
		if err := group.Wait(); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		data.Watches = watches
		data.Brands = brands
		render(w, tmpl, data)
	}
}

// AdminWatchSaveHandler creates or updates a watch (POST /admin/watches).
// A posted id means update; no id means create.
func (s *Server) AdminWatchSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		price, err := strconv.ParseFloat(r.FormValue("rental_day_price"), 64)
		if err != nil || price < 0 {
			s.redirectAdminError(w, r, RouteAdminWatches, "Please enter a valid daily price")
			return
		}

		input := backend.WatchInput{
			Name:           r.FormValue("name"),
			BrandID:        r.FormValue("brand_id"),
			Description:    r.FormValue("description"),
			RentalDayPrice: price,
			ImageURL:       r.FormValue("image_url"),
			Available:      r.FormValue("available") == "on",
		}
		if input.Name == "" {
			s.redirectAdminError(w, r, RouteAdminWatches, "Name is required")
			return
		}

		if watchID := r.FormValue("id"); watchID != "" {
			_, err = s.backend.UpdateWatch(r.Context(), watchID, input)
		} else {
			_, err = s.backend.CreateWatch(r.Context(), input)
		}
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminWatches, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminWatches, http.StatusSeeOther)
	}
}

// AdminWatchDeleteHandler removes a watch (POST /admin/watches/{id}/delete).
func (s *Server) AdminWatchDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := s.backend.DeleteWatch(r.Context(), r.PathValue("id")); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminWatches, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminWatches, http.StatusSeeOther)
	}
}

// AdminBrandsData is the brand management screen model.
type AdminBrandsData struct {
	viewBase
	Brands []backend.Brand
}

// AdminBrandsHandler renders brand management (GET /admin/brands).
func (s *Server) AdminBrandsHandler() http.HandlerFunc {
	tmpl := mustParse("admin_brands.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		brands, err := s.backend.ListBrands(r.Context())
		data := AdminBrandsData{viewBase: s.baseData(r)}
		data.Error = r.URL.Query().Get("error")
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		data.Brands = brands
		render(w, tmpl, data)
	}
}

// AdminBrandSaveHandler creates or updates a brand (POST /admin/brands).
func (s *Server) AdminBrandSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		input := backend.BrandInput{
			Name:    r.FormValue("name"),
			Country: r.FormValue("country"),
		}
		if input.Name == "" {
			s.redirectAdminError(w, r, RouteAdminBrands, "Name is required")
			return
		}

		var err error
		if brandID := r.FormValue("id"); brandID != "" {
			_, err = s.backend.UpdateBrand(r.Context(), brandID, input)
		} else {
			_, err = s.backend.CreateBrand(r.Context(), input)
		}
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminBrands, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminBrands, http.StatusSeeOther)
	}
}

// AdminBrandDeleteHandler removes a brand (POST /admin/brands/{id}/delete).
func (s *Server) AdminBrandDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := s.backend.DeleteBrand(r.Context(), r.PathValue("id")); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminBrands, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminBrands, http.StatusSeeOther)
	}
}

// AdminUsersData is the user management screen model.
type AdminUsersData struct {
	viewBase
	Users []users.User
}

// AdminUsersHandler renders user management (GET /admin/users).
func (s *Server) AdminUsersHandler() http.HandlerFunc {
	tmpl := mustParse("admin_users.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		list, err := s.backend.ListUsers(r.Context())
		data := AdminUsersData{viewBase: s.baseData(r)}
		data.Error = r.URL.Query().Get("error")
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		data.Users = list
		render(w, tmpl, data)
	}
}

// AdminUserRoleHandler flips a user's role (POST /admin/users/{id}/role).
func (s *Server) AdminUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		role := users.RoleType(r.FormValue("role"))
		if role != users.RoleUser && role != users.RoleAdmin {
			s.redirectAdminError(w, r, RouteAdminUsers, "Unknown role")
			return
		}

		if err := s.backend.SetUserRole(r.Context(), r.PathValue("id"), role); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminUsers, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
	}
}

// AdminUserDeleteHandler removes a user (POST /admin/users/{id}/delete).
func (s *Server) AdminUserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := s.backend.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				s.redirectAdminError(w, r, RouteAdminUsers, message)
			}
			return
		}
		http.Redirect(w, r, RouteAdminUsers, http.StatusSeeOther)
	}
}

func (s *Server) redirectAdminError(w http.ResponseWriter, r *http.Request, route, message string) {
	http.Redirect(w, r, route+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}
