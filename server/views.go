package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/chronoluxe/rental-frontend/gateway"
	"github.com/chronoluxe/rental-frontend/session"
)

const contentTypeHTML = "text/html; charset=utf-8"

// viewBase carries the fields every page template reads: identity for the
// nav, the cart badge, and an optional banner message.
type viewBase struct {
	AppName       string
	Authenticated bool
	IsAdmin       bool
	UserName      string
	CartCount     int
	Error         string
	Notice        string
}

func (s *Server) baseData(r *http.Request) viewBase {
	browser := browserFrom(r)
	current := browser.Session.Current()

	base := viewBase{
		AppName:       s.config.GetAppName(),
		Authenticated: current.IsAuthenticated,
		IsAdmin:       browser.Session.IsAdmin(),
		CartCount:     browser.Badge(),
	}
	if current.User != nil {
		base.UserName = current.User.FirstName
	}
	return base
}

// render executes tmpl against data, logging rather than half-writing on
// failure.
func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render template")
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
	}
}

// handleBackendError converts a gateway failure into the right page
// behaviour: a 401 drops the session and bounces to login, everything else
// re-renders the current page with the normalized user message. Returns the
// message to show, or "" when it already redirected.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, sessionStore *session.Store, err error) string {
	if gateway.IsUnauthorized(err) {
		sessionStore.Invalidate()
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
		return ""
	}
	return gateway.UserMessage(err)
}
