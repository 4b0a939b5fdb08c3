package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	token        string
	unauthorized int
}

func (a *stubAuth) BearerToken(context.Context) (string, bool) {
	return a.token, a.token != ""
}

func (a *stubAuth) Unauthorized(context.Context) {
	a.unauthorized++
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return NewClient(srv.URL+"/", opts...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================
// Authentication
// ============================================

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []Product{})
	}, WithAuthenticator(&stubAuth{token: "tok-1"}))

	_, err := NewProductService(c).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", got)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []Product{})
	}, WithAuthenticator(&stubAuth{}))

	_, err := NewProductService(c).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_UnauthorizedNotifiesAuthenticator(t *testing.T) {
	auth := &stubAuth{token: "expired"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}, WithAuthenticator(auth))

	_, err := NewOrderService(c).List(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, auth.unauthorized)
}

// ============================================
// Error mapping
// ============================================

func TestClient_APIErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"message field", `{"message":"out of stock"}`, "out of stock"},
		{"error field", `{"error":"bad input"}`, "bad input"},
		{"problem title", `{"title":"One or more validation errors occurred."}`, "One or more validation errors occurred."},
		{"json string", `"nope"`, "nope"},
		{"plain text", "server exploded\n", "server exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewProductService(c).List(context.Background())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewProductService(c).Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ShapeMismatchFailsFast(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong type", `{"id":"seven","name":"Collar"}`},
		{"missing id", `{"name":"Collar","price":10}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewProductService(c).Get(context.Background(), 7)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestClient_ValidatesEveryListEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"A"},{"name":"no id"}]`))
	})

	_, err := NewProductService(c).List(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	srv.Close()

	_, err := NewProductService(c).List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidResponse)
}
