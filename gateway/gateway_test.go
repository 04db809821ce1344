package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronoluxe/rental-frontend/gateway"
)

func newClient(t *testing.T, handler http.HandlerFunc, options ...gateway.Option) *gateway.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := gateway.New(server.URL+"/api", options...)
	require.NoError(t, err)
	return client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := gateway.New("")
	require.Error(t, err)
}

func TestDo_Success(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/watches", r.URL.Path)
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"w-1"}]`))
	})

	raw, err := client.Do(context.Background(), http.MethodGet, "/watches", nil, false)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"w-1"}]`, string(raw))
}

func TestDo_NoContent(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := client.Do(context.Background(), http.MethodDelete, "/watches/w-1", nil, true)
	require.NoError(t, err)
	require.Equal(t, gateway.NoContent, raw)
}

func TestDo_BackendError(t *testing.T) {
	t.Run("server-supplied message surfaces verbatim", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"watch is already rented"}`))
		})

		_, err := client.Do(context.Background(), http.MethodPost, "/rentals", map[string]string{"watch_id": "w-1"}, true)
		require.Error(t, err)
		var gwErr *gateway.Error
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, http.StatusConflict, gwErr.Status)
		require.Equal(t, "watch is already rented", gwErr.Message)
	})

	t.Run("missing message falls back to generic phrase", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`oops`))
		})

		_, err := client.Do(context.Background(), http.MethodGet, "/watches", nil, false)
		var gwErr *gateway.Error
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, http.StatusInternalServerError, gwErr.Status)
		require.Equal(t, gateway.UserMessage(err), gwErr.Message)
		require.NotEmpty(t, gwErr.Message)
	})

	t.Run("401 is recognized as session-invalid", func(t *testing.T) {
		client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token expired"}`))
		})

		_, err := client.Do(context.Background(), http.MethodGet, "/users/profile", nil, true)
		require.True(t, gateway.IsUnauthorized(err))
		require.False(t, gateway.IsNetworkError(err))
	})
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // nothing listening any more

	client, err := gateway.New(server.URL + "/api")
	require.NoError(t, err)

	_, err = client.Do(context.Background(), http.MethodGet, "/watches", nil, false)
	require.Error(t, err)
	require.True(t, gateway.IsNetworkError(err))

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, 0, gwErr.Status)
}

func TestDo_TimeoutBecomesNetworkError(t *testing.T) {
	release := make(chan struct{})
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release // slower than the budget; the request itself is never aborted server-side
	}, gateway.WithTimeout(50*time.Millisecond))
	t.Cleanup(func() { close(release) })

	_, err := client.Do(context.Background(), http.MethodGet, "/watches", nil, false)
	require.True(t, gateway.IsNetworkError(err))
}

func TestDo_BearerInjection(t *testing.T) {
	var seenAuth string
	handler := func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}

	t.Run("authenticated call attaches bearer header", func(t *testing.T) {
		client := newClient(t, handler, gateway.WithTokenSource(gateway.StaticToken("tok-123")))
		_, err := client.Do(context.Background(), http.MethodGet, "/users/profile", nil, true)
		require.NoError(t, err)
		require.Equal(t, "Bearer tok-123", seenAuth)
	})

	t.Run("unauthenticated call omits header", func(t *testing.T) {
		client := newClient(t, handler, gateway.WithTokenSource(gateway.StaticToken("tok-123")))
		_, err := client.Do(context.Background(), http.MethodGet, "/watches", nil, false)
		require.NoError(t, err)
		require.Empty(t, seenAuth)
	})

	t.Run("empty token omits header", func(t *testing.T) {
		client := newClient(t, handler, gateway.WithTokenSource(gateway.StaticToken("")))
		_, err := client.Do(context.Background(), http.MethodGet, "/users/profile", nil, true)
		require.NoError(t, err)
		require.Empty(t, seenAuth)
	})
}

func TestObject(t *testing.T) {
	type watch struct {
		ID string `json:"id"`
	}

	t.Run("decodes an object", func(t *testing.T) {
		got, err := gateway.Object[watch](json.RawMessage(`{"id":"w-1"}`))
		require.NoError(t, err)
		require.Equal(t, "w-1", got.ID)
	})

	t.Run("array is a shape error", func(t *testing.T) {
		_, err := gateway.Object[watch](json.RawMessage(`[{"id":"w-1"}]`))
		require.True(t, gateway.IsShapeError(err))
	})

	t.Run("null is a shape error", func(t *testing.T) {
		_, err := gateway.Object[watch](gateway.NoContent)
		require.True(t, gateway.IsShapeError(err))
	})
}

func TestArray(t *testing.T) {
	type watch struct {
		ID string `json:"id"`
	}

	t.Run("decodes an array", func(t *testing.T) {
		got, err := gateway.Array[watch](json.RawMessage(`[{"id":"w-1"},{"id":"w-2"}]`))
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("object is a shape error", func(t *testing.T) {
		_, err := gateway.Array[watch](json.RawMessage(`{"id":"w-1"}`))
		require.True(t, gateway.IsShapeError(err))
	})
}
