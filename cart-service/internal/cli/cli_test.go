package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/blunfr84/Webly/cart-service/internal/repository"
	"github.com/blunfr84/Webly/cart-service/internal/service"
	"github.com/blunfr84/Webly/checkout-service/pkg/sink"
	"github.com/blunfr84/Webly/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const servicesJSON = `{"success":true,"data":[
	{"id":1,"category":"Conseil","title":"Audit","description":"Audit complet","type":"one-time","price":100,"duration":90,
	 "features":[],"options":[{"name":"extra","price":20}]},
	{"id":2,"category":"Support","title":"Maintenance","description":"","type":"subscription","price":300,"subscriptionPrice":49.9,
	 "features":[],"options":[]}
]}`

type fakeAPI struct {
	m        sync.Mutex
	messages []sink.MessageRequest
	sessions []sink.CheckoutSessionRequest
	keys     []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/services/1":
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1,"category":"Conseil","title":"Audit","description":"Audit complet",
			"type":"one-time","price":100,"duration":90,"features":["Rapport PDF"],"options":[{"name":"extra","price":20}]}}`))
	case "/api/services/9":
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Service non trouvé"}`))
	case "/api/services":
		_, _ = w.Write([]byte(servicesJSON))
	case "/api/messages":
		var req sink.MessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.m.Lock()
		f.messages = append(f.messages, req)
		f.m.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"message":"Message reçu avec succès","data":{"id":7,"status":"pending"}}`))
	case "/api/payments/checkout-session":
		var req sink.CheckoutSessionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.m.Lock()
		f.sessions = append(f.sessions, req)
		f.keys = append(f.keys, r.Header.Get(sink.IdempotencyKeyHeader))
		f.m.Unlock()
		_, _ = w.Write([]byte(`{"success":true,"sessionId":"cs_test_1","publishableKey":"pk_test_abc","url":"https://checkout.stripe.test/cs_test_1"}`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAPI) messageCount() int {
	f.m.Lock()
	defer f.m.Unlock()
	return len(f.messages)
}

type harness struct {
	t       *testing.T
	api     *fakeAPI
	factory AppFactory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cartFile := filepath.Join(t.TempDir(), "cart.json")
	factory := func(ctx context.Context) (*App, error) {
		client, err := sink.NewClient(srv.URL, srv.Client())
		if err != nil {
			return nil, err
		}
		return Assemble(ctx, client, repository.NewFileStorage(cartFile), zap.NewNop(), 5*time.Second), nil
	}
	return &harness{t: t, api: api, factory: factory}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(h.factory)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestServicesCommand(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("services")
	require.NoError(t, err)
	assert.Contains(t, out, "Audit")
	assert.Contains(t, out, "100€")
	assert.Contains(t, out, "1h30")
	assert.Contains(t, out, "+ extra")
	assert.Contains(t, out, "49.9€/mois")
}

func TestServicesCommand_Detail(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("services", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Audit (Conseil)")
	assert.Contains(t, out, "Prix: 100€")
	assert.Contains(t, out, "Durée: 1h30")
	assert.Contains(t, out, "✓ Rapport PDF")
	assert.Contains(t, out, "+ extra (+20€)")

	_, err = h.run("services", "9")
	var apiErr *sink.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCartCommands_PersistAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("cart", "add", "1", "--qty", "2", "-o", "extra=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Audit ajouté au panier (quantité 2)")
	assert.Contains(t, out, "Panier: 2 article(s), total 240.00€")

	out, err = h.run("cart", "add", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Panier: 3 article(s), total 289.90€")

	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "+ extra")
	assert.Contains(t, out, "289.90€")

	out, err = h.run("cart", "qty", "1", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Panier: 2 article(s), total 169.90€")

	out, err = h.run("cart", "options", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "total 149.90€")

	out, err = h.run("cart", "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Panier: 1 article(s), total 100.00€")

	out, err = h.run("cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Panier: 0 article(s), total 0.00€")

	out, err = h.run("cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Votre panier est vide.")
}

func TestCartCommands_Errors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("cart", "add", "abc")
	assert.ErrorContains(t, err, "identifiant de service invalide")

	_, err = h.run("cart", "add", "1", "-o", "extra")
	assert.Error(t, err)

	_, err = h.run("cart", "add", "1", "-o", "gift=1")
	assert.ErrorIs(t, err, service.ErrUnknownOption)

	_, err = h.run("cart", "remove", "1")
	assert.ErrorIs(t, err, service.ErrItemNotInCart)
}

func TestCheckout_TransferSendsOrderAndClearsCart(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("cart", "add", "1", "--qty", "2")
	require.NoError(t, err)

	out, err := h.run("checkout", "--name", "Jean Dupont", "--email", "jean@example.com", "--phone", "0600000000",
		"--method", "transfer", "--message", "Audit de notre site")
	require.NoError(t, err)
	assert.Contains(t, out, "Commande de 1 ligne(s), total 200.00€")
	assert.Contains(t, out, "Commande envoyée (message #7)")
	assert.Contains(t, out, "Virement bancaire")

	require.Equal(t, 1, h.api.messageCount())
	assert.Contains(t, h.api.messages[0].Message, "Audit × 2 = 200€ (Achat unique)")
	assert.Contains(t, h.api.messages[0].Message, "TOTAL: 200.00€")

	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Votre panier est vide.")
}

func TestCheckout_CardPrintsPaymentPage(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("cart", "add", "1", "--qty", "2", "-o", "extra=1")
	require.NoError(t, err)

	out, err := h.run("checkout", "--name", "Jean", "--email", "jean@example.com", "--phone", "0600000000",
		"--message", "Urgent")
	require.NoError(t, err)
	assert.Contains(t, out, "Paiement: ouvrez https://checkout.stripe.test/cs_test_1")

	h.api.m.Lock()
	require.Len(t, h.api.sessions, 1)
	line := h.api.sessions[0].LineItems[0]
	key := h.api.keys[0]
	h.api.m.Unlock()
	assert.Equal(t, int64(12000), line.UnitAmountMinorUnits)
	assert.Equal(t, int64(2), line.Quantity)
	assert.NotEmpty(t, key)

	out, err = h.run("cart")
	require.NoError(t, err)
	assert.Contains(t, out, "240.00€")
}

func TestCheckout_ValidationStopsBeforeNetwork(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("cart", "add", "1")
	require.NoError(t, err)

	_, err = h.run("checkout", "--name", "Jean", "--email", "jean@example.com", "--phone", "06", "--method", "transfer")
	assert.EqualError(t, err, "Veuillez décrire vos besoins dans le message")

	_, err = h.run("checkout", "--name", "Jean", "--email", "jean@example.com", "--phone", "06",
		"--method", "bitcoin", "--message", "x")
	assert.EqualError(t, err, "Mode de paiement inconnu")
	assert.Equal(t, 0, h.api.messageCount())
}

func TestCheckout_EmptyCart(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("checkout", "--name", "Jean")
	require.NoError(t, err)
	assert.Contains(t, out, "Votre panier est vide.")
}

func TestFactoryIsLazy(t *testing.T) {
	boom := errors.New("storage unavailable")
	calls := 0
	factory := func(context.Context) (*App, error) {
		calls++
		return nil, boom
	}

	cmd := NewRootCmd(factory)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, 0, calls)

	cmd = NewRootCmd(factory)
	cmd.SetArgs([]string{"cart"})
	assert.ErrorIs(t, cmd.Execute(), boom)
	assert.Equal(t, 1, calls)
}

func TestNewApp_UnknownStorage(t *testing.T) {
	cfg := &config.Storefront{APIBaseURL: "http://localhost:3000", CartStorage: "s3"}

	_, err := NewApp(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownStorage)
}
