package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/users"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	viewBase
	Email    string // Preserve email on error
	Redirect string
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := mustParse("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			viewBase: s.baseData(r),
			Email:    r.URL.Query().Get("email"),
			Redirect: r.URL.Query().Get("redirect"),
		}
		data.Error = r.URL.Query().Get("error")
		render(w, tmpl, data)
	}
}

// LoginSubmissionHandler processes the login form (POST /login). Success
// adopts the backend identity and token into the session and returns the
// visitor to the page they were heading for.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		target := redirectTarget(r)

		if email == "" || password == "" {
			s.redirectLoginError(w, r, "Email and password are required", email, target)
			return
		}

		authenticated, err := s.backend.Login(r.Context(), backend.Credentials{Email: email, Password: password})
		if err != nil {
			s.redirectLoginError(w, r, "Invalid email or password", email, target)
			return
		}

		if err := browser.Session.Login(authenticated.User, authenticated.Token); err != nil {
			log.Err(err).Msg("Failed to persist session after login")
			s.redirectLoginError(w, r, "Something went wrong. Please try again.", email, target)
			return
		}

		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func (s *Server) redirectLoginError(w http.ResponseWriter, r *http.Request, message, email, target string) {
	query := url.Values{}
	query.Set("error", message)
	if email != "" {
		query.Set("email", email)
	}
	if target != RouteCatalog {
		query.Set("redirect", target)
	}
	http.Redirect(w, r, RouteLogin+"?"+query.Encode(), http.StatusSeeOther)
}

// SignupPageData contains data for rendering the registration page
type SignupPageData struct {
	viewBase
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// SignupPageHandler displays the registration page (GET /register)
func (s *Server) SignupPageHandler() http.HandlerFunc {
	tmpl := mustParse("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := SignupPageData{
			viewBase:  s.baseData(r),
			FirstName: r.URL.Query().Get("first_name"),
			LastName:  r.URL.Query().Get("last_name"),
			Email:     r.URL.Query().Get("email"),
			Phone:     r.URL.Query().Get("phone"),
		}
		data.Error = r.URL.Query().Get("error")
		render(w, tmpl, data)
	}
}

// SignupSubmissionHandler processes registration (POST /register) and logs
// the new account straight in.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		registration := backend.Registration{
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
			Email:     r.FormValue("email"),
			Phone:     r.FormValue("phone"),
			Password:  r.FormValue("password"),
		}

		fail := func(message string) {
			query := url.Values{}
			query.Set("error", message)
			query.Set("first_name", registration.FirstName)
			query.Set("last_name", registration.LastName)
			query.Set("email", registration.Email)
			if registration.Phone != "" {
				query.Set("phone", registration.Phone)
			}
			http.Redirect(w, r, RouteRegister+"?"+query.Encode(), http.StatusSeeOther)
		}

		if err := users.ValidateEmail(registration.Email); err != nil {
			fail("Please enter a valid email address")
			return
		}
		if err := users.ValidatePasswordStrength(registration.Password); err != nil {
			fail(err.Error())
			return
		}

		authenticated, err := s.backend.Register(r.Context(), registration)
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				fail(message)
			}
			return
		}

		if err := browser.Session.Login(authenticated.User, authenticated.Token); err != nil {
			log.Err(err).Msg("Failed to persist session after registration")
		}
		http.Redirect(w, r, RouteCatalog, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session (POST /logout) and lands on the catalog.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := browserFrom(r).Session.Logout(); err != nil {
			log.Err(err).Msg("Failed to clear session on logout")
		}
		http.Redirect(w, r, RouteCatalog, http.StatusSeeOther)
	}
}
