package server

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/chronoluxe/rental-frontend/cart"
	"github.com/chronoluxe/rental-frontend/checkout"
	"github.com/chronoluxe/rental-frontend/gateway"
	"github.com/chronoluxe/rental-frontend/session"
	"github.com/chronoluxe/rental-frontend/storage"
)

// Browser is the server-side stand-in for one browser's local storage: its
// session store, its cart, and the cached nav badge count.
type Browser struct {
	ID        string
	Session   *session.Store
	Cart      *cart.Cart
	Processor *checkout.Processor

	// mu guards the fields below; requests from one browser can overlap.
	mu        sync.Mutex
	lastOrder *checkout.Order
	badge     int
}

// Badge is the cart line count shown in the nav, refreshed by the cart's
// change signal rather than recounted per render.
func (b *Browser) Badge() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badge
}

func (b *Browser) setBadge(count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badge = count
}

// RememberOrder parks an order for the confirmation page between the submit
// redirect and the follow-up GET.
func (b *Browser) RememberOrder(order *checkout.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastOrder = order
}

// LastOrder returns the most recently placed order, or nil.
func (b *Browser) LastOrder() *checkout.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastOrder
}

// StoreFactory builds the key-value store backing one browser's state.
type StoreFactory func(storeID string) (storage.Store, error)

// fileStoreFactory persists each browser's state under its own folder so it
// survives restarts, like real local storage does.
func fileStoreFactory(dataFolder string) StoreFactory {
	return func(storeID string) (storage.Store, error) {
		return storage.NewFileStore(filepath.Join(dataFolder, "browsers", storeID))
	}
}

type browserRegistry struct {
	factory StoreFactory
	// processorFor builds the browser's checkout processor over its cart;
	// set by the server once the backend client exists.
	processorFor func(*cart.Cart) (*checkout.Processor, error)

	mu       sync.Mutex
	browsers map[string]*Browser
}

func newBrowserRegistry(factory StoreFactory) *browserRegistry {
	return &browserRegistry{
		factory:  factory,
		browsers: make(map[string]*Browser),
	}
}

// get returns the state for storeID, building it on first sight: the backing
// store, an initialized session, and a cart wired to the badge signal.
func (r *browserRegistry) get(storeID string) (*Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if browser, ok := r.browsers[storeID]; ok {
		return browser, nil
	}

	store, err := r.factory(storeID)
	if err != nil {
		return nil, errors.Wrap(err, "[browserRegistry get] build store")
	}

	sessionStore, err := session.NewStore(store)
	if err != nil {
		return nil, errors.Wrap(err, "[browserRegistry get] session store")
	}
	sessionStore.Initialize()

	browserCart, err := cart.New(store)
	if err != nil {
		return nil, errors.Wrap(err, "[browserRegistry get] cart")
	}

	processor, err := r.processorFor(browserCart)
	if err != nil {
		return nil, errors.Wrap(err, "[browserRegistry get] processor")
	}

	browser := &Browser{ID: storeID, Session: sessionStore, Cart: browserCart, Processor: processor}
	browser.badge = browserCart.Count()
	browserCart.Subscribe(browser.setBadge)

	r.browsers[storeID] = browser
	return browser, nil
}

type contextKey string

const browserContextKey contextKey = "browser"

// BrowserMiddleware binds the request to its browser state via the store
// cookie, minting a fresh store id for first-time visitors.
func (s *Server) BrowserMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := ""
		if cookie, err := r.Cookie(s.config.GetStoreCookieName()); err == nil {
			storeID = cookie.Value
		}
		if _, err := uuid.Parse(storeID); storeID == "" || err != nil {
			storeID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     s.config.GetStoreCookieName(),
				Value:    storeID,
				Path:     "/",
				MaxAge:   s.config.GetStoreCookieMaxAge(),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		browser, err := s.browsers.get(storeID)
		if err != nil {
			log.Err(err).Str("store_id", storeID).Msg("Failed to bind browser state")
			http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), browserContextKey, browser)))
	}
}

// SessionTokenSource resolves the bearer token for a backend call from the
// request's browser state, so one shared gateway client serves every
// signed-in browser with its own token.
func SessionTokenSource() gateway.TokenSource {
	return func(ctx context.Context) string {
		if browser, ok := ctx.Value(browserContextKey).(*Browser); ok {
			return browser.Session.Token()
		}
		return ""
	}
}

// browserFrom pulls the browser state bound by BrowserMiddleware. Handlers
// are only registered behind that middleware, so a miss is a programming
// error.
func browserFrom(r *http.Request) *Browser {
	browser, ok := r.Context().Value(browserContextKey).(*Browser)
	if !ok {
		panic("handler reached without browser middleware")
	}
	return browser
}
