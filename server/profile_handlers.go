package server

import (
	"net/http"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/users"
)

// ProfileData is the account page model.
type ProfileData struct {
	viewBase
	User users.User
}

// ProfileHandler renders the account page (GET /profile) from the backend's
// canonical record, not the session copy.
func (s *Server) ProfileHandler() http.HandlerFunc {
	tmpl := mustParse("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		user, err := s.backend.Profile(r.Context())
		data := ProfileData{viewBase: s.baseData(r)}
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		data.User = user
		data.Notice = r.URL.Query().Get("notice")
		render(w, tmpl, data)
	}
}

// ProfileUpdateHandler applies the edited fields (POST /profile) and
// refreshes the session's identity copy so the nav greeting stays current.
func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	tmpl := mustParse("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		patch := profilePatchFromForm(r)
		updated, err := s.backend.UpdateProfile(r.Context(), patch)
		if err != nil {
			if message := s.handleBackendError(w, r, browser.Session, err); message != "" {
				data := ProfileData{viewBase: s.baseData(r)}
				data.Error = message
				render(w, tmpl, data)
			}
			return
		}

		if err := browser.Session.Login(updated, browser.Session.Token()); err == nil {
			http.Redirect(w, r, RouteProfile+"?notice=Profile+updated", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteProfile, http.StatusSeeOther)
	}
}

// profilePatchFromForm maps submitted fields onto the patch body; fields the
// form did not carry stay nil and so untouched.
func profilePatchFromForm(r *http.Request) backend.ProfilePatch {
	patch := backend.ProfilePatch{}
	if r.Form.Has("first_name") {
		value := r.FormValue("first_name")
		patch.FirstName = &value
	}
	if r.Form.Has("last_name") {
		value := r.FormValue("last_name")
		patch.LastName = &value
	}
	if r.Form.Has("phone") {
		value := r.FormValue("phone")
		patch.Phone = &value
	}
	return patch
}
