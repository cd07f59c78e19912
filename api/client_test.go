package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradelog/tradelog/session"
)

func newTestSession(t *testing.T, access, refresh string) (*session.Store, *session.MemoryPersister) {
	t.Helper()

	p := session.NewMemory()
	s := session.NewStore(p)
	if access != "" {
		s.LoginSuccess(access, refresh, &session.User{ID: 7, Username: "dana"})
	}
	return s, p
}

func TestBearerHeaderAttached(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	_, err := client.ListOrders(context.Background())
	assert.NoError(t, err)
}

func TestNoHeaderWhenLoggedOut(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		assert.False(t, present, "unauthenticated request must carry no bearer header")
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "", "")
	client := NewClient(server.URL, sessions)

	err := client.Register(context.Background(), "dana", "dana@example.com", "hunter2")
	assert.NoError(t, err)
}

func TestRefreshAndRetry(t *testing.T) {
	t.Parallel()

	var refreshCalls, orderCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)

			// Refresh is a dedicated, unauthenticated call.
			_, present := r.Header["Authorization"]
			assert.False(t, present)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "R1", body["refresh"])

			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})

		case "/api/orders/":
			n := atomic.AddInt32(&orderCalls, 1)
			if n == 1 {
				assert.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "Bearer A2", r.Header.Get("Authorization"))
			w.Write([]byte(`[{"id":1,"symbol":"AAPL","quantity":5,"price":"187.20","order_type":"buy","status":"open"}]`))

		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "AAPL", orders[0].Symbol)

	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 2, atomic.LoadInt32(&orderCalls))

	// Access token replaced, refresh token untouched.
	assert.Equal(t, "A2", sessions.AccessToken())
	assert.Equal(t, "R1", sessions.RefreshToken())
	assert.True(t, sessions.IsAuthenticated())
}

func TestNoRefreshTokenForcesLogout(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sessions, p := newTestSession(t, "A1", "")
	client := NewClient(server.URL, sessions)

	_, err := client.ListOrders(context.Background())
	require.Error(t, err)

	// The original 401 comes back and no refresh attempt is made.
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))

	assert.False(t, sessions.IsAuthenticated())
	creds, loadErr := p.Load()
	require.NoError(t, loadErr)
	assert.Equal(t, session.Credentials{}, creds)
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid token"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	_, err := client.ListOrders(context.Background())
	require.Error(t, err)

	// The refresh error, not the original 401, reaches the caller.
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid token", apiErr.Message)

	assert.False(t, sessions.IsAuthenticated())
}

func TestSecondUnauthorizedIsNotRetried(t *testing.T) {
	t.Parallel()

	var refreshCalls, orderCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
			return
		}
		atomic.AddInt32(&orderCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	_, err := client.ListOrders(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Exactly one refresh and one resend; the second 401 is terminal.
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 2, atomic.LoadInt32(&orderCalls))

	// The retry bound does not tear the session down by itself.
	assert.Equal(t, "A2", sessions.AccessToken())
}

func TestNonAuthErrorsPassThrough(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"close_price and close_date are required."}`))
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	err := client.CloseTrade(context.Background(), 12, CloseTradeRequest{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "close_price and close_date are required.", apiErr.Message)

	assert.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls))
	assert.True(t, sessions.IsAuthenticated(), "validation errors must not touch the session")
}

func TestServerErrorsPassThrough(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	_, err := client.ListOpenPositions(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, sessions.IsAuthenticated())
}

func TestLoginEstablishesSession(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "dana@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		w.Write([]byte(`{"access":"A1","refresh":"R1","user":{"id":7,"username":"dana","email":"dana@example.com"}}`))
	}))
	defer server.Close()

	sessions, p := newTestSession(t, "", "")
	client := NewClient(server.URL, sessions)

	user, err := client.Login(context.Background(), "dana@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	assert.True(t, sessions.IsAuthenticated())
	assert.True(t, sessions.AuthLoaded())

	creds, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "A1", creds.AccessToken)
	assert.Equal(t, "R1", creds.RefreshToken)
}

func TestLogoutSendsRefreshTokenAndClears(t *testing.T) {
	t.Parallel()

	var logoutCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout/", r.URL.Path)
		atomic.AddInt32(&logoutCalls, 1)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "R1", body["refresh"])

		w.WriteHeader(http.StatusResetContent)
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	assert.NoError(t, client.Logout(context.Background()))
	assert.EqualValues(t, 1, atomic.LoadInt32(&logoutCalls))
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutWithoutRefreshTokenSkipsBackend(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "")
	client := NewClient(server.URL, sessions)

	assert.NoError(t, client.Logout(context.Background()))
	assert.EqualValues(t, 0, atomic.LoadInt32(&calls))
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer server.Close()

	sessions, _ := newTestSession(t, "A1", "R1")
	client := NewClient(server.URL, sessions)

	err := client.Logout(context.Background())
	assert.Error(t, err)
	assert.False(t, sessions.IsAuthenticated())
}
