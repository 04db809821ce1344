package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	// Catalog (public)
	s.RegisterRouteHandler("GET "+RouteCatalog+"{$}", ChainMiddleware(s.CatalogHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteWatchDetail, ChainMiddleware(s.WatchDetailHandler(), s.HTMLMiddleware()...))

	// Account
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.SignupPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.SignupSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteProfile, ChainMiddleware(s.ProfileUpdateHandler(), s.HTMLMiddleware(s.RequireSession)...))

	// Cart (browseable while signed out; checkout is where auth kicks in)
	s.RegisterRouteHandler("GET "+RouteCart, ChainMiddleware(s.CartHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCartAdd, ChainMiddleware(s.CartAddHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCartRemove, ChainMiddleware(s.CartRemoveHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCartDates, ChainMiddleware(s.CartDatesHandler(), s.HTMLMiddleware()...))

	// Checkout & history
	s.RegisterRouteHandler("GET "+RouteCheckout, ChainMiddleware(s.CheckoutPageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteCheckout, ChainMiddleware(s.CheckoutSubmitHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteConfirmation, ChainMiddleware(s.ConfirmationHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteRentals, ChainMiddleware(s.RentalsHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteRentalCancel, ChainMiddleware(s.RentalCancelHandler(), s.HTMLMiddleware(s.RequireSession)...))

	// Admin
	s.RegisterRouteHandler("GET "+RouteAdminWatches, ChainMiddleware(s.AdminWatchesHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminWatches, ChainMiddleware(s.AdminWatchSaveHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminWatchDelete, ChainMiddleware(s.AdminWatchDeleteHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("GET "+RouteAdminBrands, ChainMiddleware(s.AdminBrandsHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminBrands, ChainMiddleware(s.AdminBrandSaveHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminBrandDelete, ChainMiddleware(s.AdminBrandDeleteHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminUserRole, ChainMiddleware(s.AdminUserRoleHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))
	s.RegisterRouteHandler("POST "+RouteAdminUserDelete, ChainMiddleware(s.AdminUserDeleteHandler(), s.HTMLMiddleware(s.RequireSession, s.RequireAdmin)...))

	// Static assets
	s.RegisterRouteFunc("GET "+RouteStaticCSS, s.serveFileHandler())
	s.RegisterRouteFunc("GET "+RouteStaticImages, s.serveFileHandler())
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.fileServer.ServeHTTP(w, r)
	}
}
