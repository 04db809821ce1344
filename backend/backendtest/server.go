// Package backendtest provides an in-process fake of the rental backend for
// package tests: an httptest server speaking the same REST surface, minting
// real JWT bearer tokens and enforcing them on protected routes.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/users"
)

const signingSecret = "backendtest-secret"

// Server is a fake rental backend. Zero-value maps are initialized by New.
type Server struct {
	mu sync.Mutex

	httpServer *httptest.Server

	accounts map[string]account // email -> account
	tokens   map[string]string  // token -> user id
	watches  map[string]backend.Watch
	brands   map[string]backend.Brand
	rentals  map[string]backend.Rental
	payments []backend.Payment

	requests []string // "METHOD /path" in arrival order

	// FailPayments makes every POST /payments return a 502 until cleared.
	FailPayments bool
	// TokenTTL controls minted token lifetimes. Defaults to one hour.
	TokenTTL time.Duration
}

type account struct {
	user     users.User
	password string
}

// New starts the fake backend. Callers must Close it.
func New() *Server {
	s := &Server{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		watches:  make(map[string]backend.Watch),
		brands:   make(map[string]backend.Brand),
		rentals:  make(map[string]backend.Rental),
		TokenTTL: time.Hour,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/profile", s.authenticated(s.handleProfile))
	mux.HandleFunc("GET /api/users", s.authenticated(s.handleListUsers))
	mux.HandleFunc("GET /api/watches", s.handleListWatches)
	mux.HandleFunc("GET /api/watches/{id}", s.handleGetWatch)
	mux.HandleFunc("GET /api/brands", s.handleListBrands)
	mux.HandleFunc("POST /api/rentals", s.authenticated(s.handleCreateRental))
	mux.HandleFunc("GET /api/rentals", s.authenticated(s.handleListRentals))
	mux.HandleFunc("GET /api/rentals/{id}", s.authenticated(s.handleGetRental))
	mux.HandleFunc("PATCH /api/rentals/{id}/status", s.authenticated(s.handleSetRentalStatus))
	mux.HandleFunc("PATCH /api/rentals/{id}/cancel", s.authenticated(s.handleCancelRental))
	mux.HandleFunc("POST /api/payments", s.authenticated(s.handleCreatePayment))
	mux.HandleFunc("GET /api/payments", s.authenticated(s.handleListPayments))

	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		mux.ServeHTTP(w, r)
	})
	s.httpServer = httptest.NewServer(logged)
	return s
}

// URL returns the API base URL (including the /api prefix).
func (s *Server) URL() string {
	return s.httpServer.URL + "/api"
}

// Close shuts the fake backend down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// Requests returns "METHOD /path" entries in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// AddAccount seeds a user that can log in with the given password.
func (s *Server) AddAccount(user users.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[user.Email] = account{user: user, password: password}
}

// AddWatch seeds a catalog entry.
func (s *Server) AddWatch(watch backend.Watch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watches[watch.ID] = watch
}

// AddBrand seeds a brand.
func (s *Server) AddBrand(brand backend.Brand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands[brand.ID] = brand
}

// AddRental seeds an existing rental (for direct-payment flows).
func (s *Server) AddRental(rental backend.Rental) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rentals[rental.ID] = rental
}

// Rental returns a stored rental by id.
func (s *Server) Rental(rentalID string) (backend.Rental, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental, ok := s.rentals[rentalID]
	return rental, ok
}

// Payments returns every recorded payment in creation order.
func (s *Server) Payments() []backend.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// MintToken issues a token for an arbitrary user id, bypassing login.
func (s *Server) MintToken(userID string) string {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(s.TokenTTL).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(signingSecret))
	if err != nil {
		panic("backendtest: sign token: " + err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[signed] = userID
	return signed
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api"))
}

func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		s.mu.Lock()
		_, ok := s.tokens[parts[1]]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var registration backend.Registration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	user := users.User{
		ID:        uuid.New().String(),
		Email:     registration.Email,
		FirstName: registration.FirstName,
		LastName:  registration.LastName,
		Phone:     registration.Phone,
		Role:      users.RoleUser,
	}

	s.mu.Lock()
	s.accounts[user.Email] = account{user: user, password: registration.Password}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, backend.AuthenticatedUser{User: user, Token: s.MintToken(user.ID)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var credentials backend.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[credentials.Email]
	s.mu.Unlock()
	if !ok || acct.password != credentials.Password {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, backend.AuthenticatedUser{User: acct.user, Token: s.MintToken(acct.user.ID)})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFor(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			writeJSON(w, http.StatusOK, acct.user)
			return
		}
	}
	writeError(w, http.StatusNotFound, "user not found")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]users.User, 0, len(s.accounts))
	for _, acct := range s.accounts {
		list = append(list, acct.user)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListWatches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]backend.Watch, 0, len(s.watches))
	for _, watch := range s.watches {
		list = append(list, watch)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetWatch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	watch, ok := s.watches[r.PathValue("id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "watch not found")
		return
	}
	writeJSON(w, http.StatusOK, watch)
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]backend.Brand, 0, len(s.brands))
	for _, brand := range s.brands {
		list = append(list, brand)
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateRental(w http.ResponseWriter, r *http.Request) {
	var request backend.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	rental := backend.Rental{
		ID:             uuid.New().String(),
		WatchID:        request.WatchID,
		UserID:         s.userIDFor(r),
		RentalDays:     request.RentalDays,
		StartDate:      request.StartDate,
		EndDate:        request.EndDate,
		TotalPrice:     request.TotalPrice,
		Status:         backend.RentalStatusPending,
		CollectionMode: request.CollectionMode,
	}

	s.mu.Lock()
	s.rentals[rental.ID] = rental
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rental)
}

func (s *Server) handleListRentals(w http.ResponseWriter, r *http.Request) {
	userID := s.userIDFor(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]backend.Rental, 0, len(s.rentals))
	for _, rental := range s.rentals {
		if rental.UserID == "" || rental.UserID == userID {
			list = append(list, rental)
		}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetRental(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rental, ok := s.rentals[r.PathValue("id")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "rental not found")
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (s *Server) handleSetRentalStatus(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch.Status == "" {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rental, ok := s.rentals[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "rental not found")
		return
	}
	rental.Status = patch.Status
	s.rentals[rental.ID] = rental
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelRental(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental, ok := s.rentals[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "rental not found")
		return
	}
	rental.Status = backend.RentalStatusCancelled
	s.rentals[rental.ID] = rental
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var request backend.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	if s.FailPayments {
		s.mu.Unlock()
		writeError(w, http.StatusBadGateway, "payment provider unavailable")
		return
	}
	rental, ok := s.rentals[request.RentalID]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "rental not found")
		return
	}

	payment := backend.Payment{
		ID:            uuid.New().String(),
		RentalID:      request.RentalID,
		Amount:        request.Amount,
		PaymentMethod: request.PaymentMethod,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	s.payments = append(s.payments, payment)

	rental.IsPaid = true
	rental.Status = backend.RentalStatusActive
	s.rentals[rental.ID] = rental
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]backend.Payment, 0, len(s.payments))
	list = append(list, s.payments...)
	writeJSON(w, http.StatusOK, list)
}

// userIDFor resolves the bearer token already vetted by the authenticated
// wrapper back to its user id.
func (s *Server) userIDFor(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[parts[1]]
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
