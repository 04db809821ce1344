package server_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/backend/backendtest"
	"github.com/chronoluxe/rental-frontend/gateway"
	"github.com/chronoluxe/rental-frontend/internal/config"
	"github.com/chronoluxe/rental-frontend/server"
	"github.com/chronoluxe/rental-frontend/storage"
	"github.com/chronoluxe/rental-frontend/users"
)

type fixture struct {
	fake     *backendtest.Server
	frontend *httptest.Server
	client   *http.Client
}

func setup(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("ENV", "TEST")

	fake := backendtest.New()
	t.Cleanup(fake.Close)

	fake.AddAccount(users.User{ID: "u-1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: users.RoleUser}, "correct horse")
	fake.AddAccount(users.User{ID: "u-2", Email: "admin@example.com", FirstName: "Grace", Role: users.RoleAdmin}, "hopper")
	fake.AddBrand(backend.Brand{ID: "b-1", Name: "Rolex", Country: "Switzerland"})
	fake.AddWatch(backend.Watch{ID: "w-1", Name: "Submariner", BrandID: "b-1", BrandName: "Rolex", RentalDayPrice: 100, Available: true})

	gw, err := gateway.New(fake.URL(), gateway.WithTokenSource(server.SessionTokenSource()))
	require.NoError(t, err)
	backendClient, err := backend.New(gw)
	require.NoError(t, err)

	s, err := server.New(config.New(), backendClient,
		server.WithStoreFactory(func(string) (storage.Store, error) {
			return storage.NewInMemoryStore(), nil
		}))
	require.NoError(t, err)

	frontend := httptest.NewServer(s)
	t.Cleanup(frontend.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &fixture{
		fake:     fake,
		frontend: frontend,
		client:   &http.Client{Jar: jar},
	}
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.Get(f.frontend.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.frontend.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// getNoRedirect issues a GET that stops at the first redirect so the
// Location header can be asserted.
func (f *fixture) getNoRedirect(t *testing.T, path string) *http.Response {
	t.Helper()
	client := &http.Client{
		Jar:           f.client.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.Get(f.frontend.URL + path)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (f *fixture) login(t *testing.T, email, password string) {
	t.Helper()
	resp, _ := f.post(t, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCatalogPage(t *testing.T) {
	f := setup(t)

	resp, body := f.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Submariner")
	require.Contains(t, body, "Rolex")
	require.Contains(t, body, "$100.00 / day")
	require.Contains(t, body, "Sign in")
}

func TestWatchDetailPage(t *testing.T) {
	f := setup(t)

	resp, body := f.get(t, "/watches/w-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Submariner")
	// Default window is a priced week
	require.Contains(t, body, "7 days")
	require.Contains(t, body, "$700.00")
}

func TestRequireSessionRedirectsWithReturnTarget(t *testing.T) {
	f := setup(t)
	f.get(t, "/") // establish the store cookie

	resp := f.getNoRedirect(t, "/checkout")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?redirect=%2Fcheckout", resp.Header.Get("Location"))
}

func TestLoginFlow(t *testing.T) {
	f := setup(t)

	t.Run("wrong password bounces back with the error", func(t *testing.T) {
		resp, body := f.post(t, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
		require.Equal(t, http.StatusOK, resp.StatusCode) // after redirect back to /login
		require.Contains(t, body, "Invalid email or password")
		require.Contains(t, body, "ada@example.com") // email preserved
	})

	t.Run("valid credentials establish the session", func(t *testing.T) {
		f.login(t, "ada@example.com", "correct horse")

		resp, body := f.get(t, "/profile")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "ada@example.com")
		require.Contains(t, body, "Ada")
	})

	t.Run("logout drops the session", func(t *testing.T) {
		resp, _ := f.post(t, "/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		redirect := f.getNoRedirect(t, "/profile")
		require.Equal(t, http.StatusSeeOther, redirect.StatusCode)
	})
}

func TestRegistrationFlow(t *testing.T) {
	f := setup(t)

	resp, _ := f.post(t, "/register", url.Values{
		"first_name": {"Alan"},
		"last_name":  {"Turing"},
		"email":      {"alan@example.com"},
		"password":   {"Enigma#1936"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Registration signs the account straight in
	_, body := f.get(t, "/profile")
	require.Contains(t, body, "alan@example.com")
}

func TestCartAndCheckoutFlow(t *testing.T) {
	f := setup(t)
	f.login(t, "ada@example.com", "correct horse")

	resp, _ := f.post(t, "/cart/add", url.Values{
		"watch_id":   {"w-1"},
		"start_date": {"2026-04-01"},
		"end_date":   {"2026-04-08"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("cart shows the priced line and the nav badge", func(t *testing.T) {
		_, body := f.get(t, "/cart")
		require.Contains(t, body, "Submariner")
		require.Contains(t, body, "$700.00")

		_, home := f.get(t, "/")
		require.Contains(t, home, "Cart (1)")
	})

	t.Run("empty card submission surfaces every field error", func(t *testing.T) {
		_, body := f.post(t, "/checkout", url.Values{"payment_method": {"Credit Card"}})
		require.Contains(t, body, "Please enter a valid card number")
		require.Contains(t, body, "Please enter the cardholder name")
		require.Contains(t, body, "Please enter a valid expiry date (MM/YY)")
		require.Contains(t, body, "Please enter a valid CVV")

		// Nothing was submitted and the cart survives
		require.Empty(t, f.fake.Payments())
		_, home := f.get(t, "/")
		require.Contains(t, home, "Cart (1)")
	})

	t.Run("paypal submission places the order and clears the cart", func(t *testing.T) {
		resp, body := f.post(t, "/checkout", url.Values{"payment_method": {"PayPal"}})
		require.Equal(t, http.StatusOK, resp.StatusCode) // confirmation after redirect
		require.Contains(t, body, "Your order")
		require.Contains(t, body, "ORD-")
		require.Contains(t, body, "$700.00")

		payments := f.fake.Payments()
		require.Len(t, payments, 1)
		require.Equal(t, "PayPal", payments[0].PaymentMethod)
		require.Equal(t, 700.0, payments[0].Amount)

		_, home := f.get(t, "/")
		require.NotContains(t, home, "Cart (1)")
	})

	t.Run("rental history shows the paid rental", func(t *testing.T) {
		_, body := f.get(t, "/rentals")
		require.Contains(t, body, "Paid $700.00")
	})
}

func TestDirectPaymentMode(t *testing.T) {
	f := setup(t)
	f.login(t, "ada@example.com", "correct horse")

	f.fake.AddRental(backend.Rental{
		ID: "r-1", WatchID: "w-1", UserID: "u-1", RentalDays: 7,
		StartDate: "2026-04-01T00:00:00Z", EndDate: "2026-04-08T00:00:00Z",
		TotalPrice: 700, Status: backend.RentalStatusPending,
	})

	t.Run("unpaid rental renders read-only checkout", func(t *testing.T) {
		resp, body := f.get(t, "/checkout?rental=r-1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "(fixed)")
		require.Contains(t, body, "$700.00")
	})

	t.Run("paying marks the rental and re-fetches it", func(t *testing.T) {
		resp, body := f.post(t, "/checkout", url.Values{"rental": {"r-1"}, "payment_method": {"PayPal"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "r-1")

		rental, ok := f.fake.Rental("r-1")
		require.True(t, ok)
		require.True(t, rental.IsPaid)
	})

	t.Run("already-paid rental goes straight to history", func(t *testing.T) {
		resp := f.getNoRedirect(t, "/checkout?rental=r-1")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/rentals", resp.Header.Get("Location"))
	})
}

func TestConcurrentRenderAndCartMutation(t *testing.T) {
	f := setup(t)
	f.get(t, "/") // bind the store cookie before fanning out

	addForm := url.Values{
		"watch_id":   {"w-1"},
		"start_date": {"2026-04-01"},
		"end_date":   {"2026-04-08"},
	}

	// Overlapping renders and mutations from one browser: page renders read
	// the badge while cart adds update it. Run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp, err := f.client.PostForm(f.frontend.URL+"/cart/add", addForm)
			if err == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
		go func() {
			defer wg.Done()
			resp, err := f.client.Get(f.frontend.URL + "/")
			if err == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	// Re-adding the same watch replaces its line, so the badge settles at 1
	_, body := f.get(t, "/")
	require.Contains(t, body, "Cart (1)")
}

func TestCancelRentalFromHistory(t *testing.T) {
	f := setup(t)
	f.login(t, "ada@example.com", "correct horse")

	f.fake.AddRental(backend.Rental{
		ID: "r-2", WatchID: "w-1", UserID: "u-1", RentalDays: 3,
		StartDate: "2026-05-01T00:00:00Z", EndDate: "2026-05-04T00:00:00Z",
		TotalPrice: 300, Status: backend.RentalStatusPending,
	})

	resp, body := f.post(t, "/rentals/r-2/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode) // back on history after redirect
	require.Contains(t, body, "cancelled")

	cancelled, ok := f.fake.Rental("r-2")
	require.True(t, ok)
	require.Equal(t, backend.RentalStatusCancelled, cancelled.Status)
}

func TestStaleTokenDropsSession(t *testing.T) {
	f := setup(t)
	f.login(t, "ada@example.com", "correct horse")

	// Backend gone entirely: the transport failure renders inline as the
	// fixed network message rather than dropping the session
	f.fake.Close()

	_, body := f.get(t, "/rentals")
	require.Contains(t, body, "Network error. Please check your connection.")
}

func TestAdminAccess(t *testing.T) {
	f := setup(t)

	t.Run("non-admin is sent back to the catalog", func(t *testing.T) {
		f.login(t, "ada@example.com", "correct horse")
		resp := f.getNoRedirect(t, "/admin/users")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("admin manages users and watches", func(t *testing.T) {
		f.login(t, "admin@example.com", "hopper")

		_, body := f.get(t, "/admin/users")
		require.Contains(t, body, "ada@example.com")
		require.Contains(t, body, "admin@example.com")

		_, body = f.get(t, "/admin/watches")
		require.Contains(t, body, "Submariner")
		require.Contains(t, body, "Rolex")
	})
}

func TestStaticAssets(t *testing.T) {
	f := setup(t)
	resp, body := f.get(t, "/css/style.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "font-family")
}
