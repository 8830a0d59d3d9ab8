package sink

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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return c
}

func TestListServices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"title":"Audit","type":"one-time","price":100,"options":[{"name":"extra","price":20}]}]}`))
	})

	services, err := c.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Audit", services[0].Title)
	assert.Equal(t, 100.0, *services[0].Price)
	assert.Equal(t, 20.0, services[0].Options[0].Price)
}

func TestPostMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req MessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Jean", req.Name)
		assert.Equal(t, "2026-10-15", req.Date)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":12,"name":"Jean","status":"pending"}}`))
	})

	rec, err := c.PostMessage(context.Background(), MessageRequest{Name: "Jean", Email: "j@example.com", Message: "hi", Date: "2026-10-15"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), rec.ID)
}

func TestPostMessage_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Nom, email et message requis"}`))
	})

	_, err := c.PostMessage(context.Background(), MessageRequest{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Nom, email et message requis", apiErr.Message)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestPostMessage_SuccessFalse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	})

	_, err := c.PostMessage(context.Background(), MessageRequest{})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestCreateCheckoutSession_SendsIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/checkout-session", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get(IdempotencyKeyHeader))

		var req CheckoutSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.LineItems, 1)
		assert.Equal(t, int64(20000), req.LineItems[0].UnitAmountMinorUnits)

		_, _ = w.Write([]byte(`{"success":true,"sessionId":"cs_1","publishableKey":"pk_test","url":"https://checkout.stripe.com/c/cs_1"}`))
	})

	resp, err := c.CreateCheckoutSession(context.Background(), CheckoutSessionRequest{
		LineItems: []LineItem{{UnitAmountMinorUnits: 20000, ProductName: "Audit", Quantity: 2}},
	}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "cs_1", resp.SessionID)
	assert.Equal(t, "pk_test", resp.PublishableKey)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListServices(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
}

func TestGetService_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/services/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Service non trouvé"}`))
	})

	_, err := c.GetService(context.Background(), 42)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Service non trouvé", apiErr.Message)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestStripeConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/config/stripe", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"publishableKey":"pk_test_abc"}`))
	})

	cfg, err := c.StripeConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pk_test_abc", cfg.PublishableKey)
}
