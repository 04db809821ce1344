package server

import (
	"net/http"
	"net/url"
)

// RequireSession gates a route on an authenticated session with a live
// token. Unauthenticated visitors are sent to the login page carrying the
// page they wanted, so login can return them there.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		browser := browserFrom(r)
		if !browser.Session.Current().IsAuthenticated || !browser.Session.IsTokenValid() {
			browser.Session.Invalidate()
			target := RouteLogin + "?redirect=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAdmin additionally gates on the admin role. Non-admins land back on
// the catalog rather than an error page.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !browserFrom(r).Session.IsAdmin() {
			http.Redirect(w, r, RouteCatalog, http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// redirectTarget sanitizes the post-login return target: only local paths
// are honoured, anything else falls back to the catalog.
func redirectTarget(r *http.Request) string {
	target := r.FormValue("redirect")
	if target == "" || target[0] != '/' || len(target) > 1 && target[1] == '/' {
		return RouteCatalog
	}
	return target
}
