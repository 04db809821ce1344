package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Catalog
	RouteCatalog     = "/"
	RouteWatchDetail = "/watches/{id}"

	// Account
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"
	RouteProfile  = "/profile"

	// Cart & checkout
	RouteCart         = "/cart"
	RouteCartAdd      = "/cart/add"
	RouteCartRemove   = "/cart/remove"
	RouteCartDates    = "/cart/dates"
	RouteCheckout     = "/checkout"
	RouteConfirmation = "/confirmation"

	// Rentals
	RouteRentals      = "/rentals"
	RouteRentalCancel = "/rentals/{id}/cancel"

	// Admin
	RouteAdminWatches     = "/admin/watches"
	RouteAdminWatchDelete = "/admin/watches/{id}/delete"
	RouteAdminBrands      = "/admin/brands"
	RouteAdminBrandDelete = "/admin/brands/{id}/delete"
	RouteAdminUsers       = "/admin/users"
	RouteAdminUserRole    = "/admin/users/{id}/role"
	RouteAdminUserDelete  = "/admin/users/{id}/delete"

	// Static Asset Routes (patterns)
	RouteStaticCSS    = "/css/{file}"
	RouteStaticImages = "/images/{file}"
)
