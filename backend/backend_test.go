package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronoluxe/rental-frontend/backend"
	"github.com/chronoluxe/rental-frontend/backend/backendtest"
	"github.com/chronoluxe/rental-frontend/gateway"
	"github.com/chronoluxe/rental-frontend/users"
)

func setup(t *testing.T) (*backendtest.Server, *backend.Client, *string) {
	t.Helper()
	fake := backendtest.New()
	t.Cleanup(fake.Close)

	var token string
	gw, err := gateway.New(fake.URL(), gateway.WithTokenSource(func(context.Context) string { return token }))
	require.NoError(t, err)

	client, err := backend.New(gw)
	require.NoError(t, err)
	return fake, client, &token
}

func TestLoginAndProfile(t *testing.T) {
	fake, client, token := setup(t)
	fake.AddAccount(users.User{ID: "u-1", Email: "ada@example.com", FirstName: "Ada", Role: users.RoleUser}, "Password1")

	t.Run("wrong password is a 401", func(t *testing.T) {
		_, err := client.Login(context.Background(), backend.Credentials{Email: "ada@example.com", Password: "nope"})
		require.True(t, gateway.IsUnauthorized(err))
	})

	t.Run("login returns identity and token", func(t *testing.T) {
		authed, err := client.Login(context.Background(), backend.Credentials{Email: "ada@example.com", Password: "Password1"})
		require.NoError(t, err)
		require.Equal(t, "u-1", authed.ID)
		require.NotEmpty(t, authed.Token)
		*token = authed.Token
	})

	t.Run("profile requires the bearer token", func(t *testing.T) {
		profile, err := client.Profile(context.Background())
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", profile.Email)

		*token = ""
		_, err = client.Profile(context.Background())
		require.True(t, gateway.IsUnauthorized(err))
	})
}

func TestRegister(t *testing.T) {
	_, client, _ := setup(t)

	authed, err := client.Register(context.Background(), backend.Registration{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Password:  "Password1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, authed.ID)
	require.NotEmpty(t, authed.Token)
	require.Equal(t, users.RoleUser, authed.Role)
}

func TestWatchesAndBrands(t *testing.T) {
	fake, client, _ := setup(t)
	fake.AddWatch(backend.Watch{ID: "w-1", Name: "Submariner", RentalDayPrice: 100, Available: true})
	fake.AddBrand(backend.Brand{ID: "b-1", Name: "Rolex", Country: "CH"})

	watches, err := client.ListWatches(context.Background())
	require.NoError(t, err)
	require.Len(t, watches, 1)

	watch, err := client.GetWatch(context.Background(), "w-1")
	require.NoError(t, err)
	require.Equal(t, 100.0, watch.RentalDayPrice)

	brands, err := client.ListBrands(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Rolex", brands[0].Name)
}

func TestRentalAndPaymentFlow(t *testing.T) {
	fake, client, token := setup(t)
	*token = fake.MintToken("u-1")

	rental, err := client.CreateRental(context.Background(), backend.RentalRequest{
		WatchID:        "w-1",
		RentalDays:     7,
		StartDate:      "2026-04-01T00:00:00Z",
		EndDate:        "2026-04-08T00:00:00Z",
		TotalPrice:     700,
		CollectionMode: "pickup",
	})
	require.NoError(t, err)
	require.False(t, rental.IsPaid)

	payment, err := client.CreatePayment(context.Background(), backend.PaymentRequest{
		RentalID:      rental.ID,
		Amount:        700,
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)
	require.Equal(t, rental.ID, payment.RentalID)

	refreshed, err := client.GetRental(context.Background(), rental.ID)
	require.NoError(t, err)
	require.True(t, refreshed.IsPaid)

	mine, err := client.ListMyRentals(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)

	payments, err := client.ListMyPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 1)

	require.NoError(t, client.SetRentalStatus(context.Background(), rental.ID, backend.RentalStatusReturned))
	refreshed, err = client.GetRental(context.Background(), rental.ID)
	require.NoError(t, err)
	require.Equal(t, backend.RentalStatusReturned, refreshed.Status)
}

func TestCancelRental(t *testing.T) {
	fake, client, token := setup(t)
	*token = fake.MintToken("u-1")

	fake.AddRental(backend.Rental{ID: "r-1", WatchID: "w-1", UserID: "u-1", Status: backend.RentalStatusPending})

	require.NoError(t, client.CancelRental(context.Background(), "r-1"))
	cancelled, ok := fake.Rental("r-1")
	require.True(t, ok)
	require.Equal(t, backend.RentalStatusCancelled, cancelled.Status)
}
