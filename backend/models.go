package backend

import "github.com/chronoluxe/rental-frontend/users"

// Watch is a catalog entry as the backend reports it.
type Watch struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	BrandID        string  `json:"brand_id,omitempty"`
	BrandName      string  `json:"brand_name,omitempty"`
	Description    string  `json:"description,omitempty"`
	RentalDayPrice float64 `json:"rental_day_price"`
	ImageURL       string  `json:"image_url,omitempty"`
	Available      bool    `json:"available"`
}

// Brand is a watch manufacturer record.
type Brand struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// Rental statuses as reported by the backend.
const (
	RentalStatusPending   = "pending"
	RentalStatusActive    = "active"
	RentalStatusReturned  = "returned"
	RentalStatusCancelled = "cancelled"
)

// Rental is a rental record. StartDate and EndDate are ISO instants; the
// frontend converts to date-only values at the checkout boundary.
type Rental struct {
	ID             string  `json:"id"`
	WatchID        string  `json:"watch_id"`
	UserID         string  `json:"user_id,omitempty"`
	RentalDays     int     `json:"rental_days"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalPrice     float64 `json:"total_price"`
	Status         string  `json:"status,omitempty"`
	IsPaid         bool    `json:"isPaid"`
	CollectionMode string  `json:"collection_mode,omitempty"`
}

// Payment is a settled payment record.
type Payment struct {
	ID            string  `json:"id"`
	RentalID      string  `json:"rental_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the self-registration request body.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

// AuthenticatedUser is the login/registration response: the identity fields
// plus the bearer token the session adopts.
type AuthenticatedUser struct {
	users.User
	Token string `json:"token"`
}

// ProfilePatch carries the editable profile fields; nil means "leave as is".
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// WatchInput is the create/update body for a watch (admin only).
type WatchInput struct {
	Name           string  `json:"name"`
	BrandID        string  `json:"brand_id,omitempty"`
	Description    string  `json:"description,omitempty"`
	RentalDayPrice float64 `json:"rental_day_price"`
	ImageURL       string  `json:"image_url,omitempty"`
	Available      bool    `json:"available"`
}

// BrandInput is the create/update body for a brand (admin only).
type BrandInput struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// RentalRequest creates a rental from checkout.
type RentalRequest struct {
	WatchID        string  `json:"watch_id"`
	RentalDays     int     `json:"rental_days"`
	StartDate      string  `json:"start_date"` // ISO instant
	EndDate        string  `json:"end_date"`   // ISO instant
	TotalPrice     float64 `json:"total_price"`
	CollectionMode string  `json:"collection_mode"`
}

// PaymentRequest settles a rental.
type PaymentRequest struct {
	RentalID      string  `json:"rental_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}
