package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jpart-gallery/gallery-api/internal/models"
	"github.com/jpart-gallery/gallery-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
)

const testWebhookSecret = "whsec_test"

type stubGateway struct {
	*services.StripeGateway
	item services.CheckoutItem
}

func (s *stubGateway) CreateCheckoutSession(_ context.Context, item services.CheckoutItem) (*services.CheckoutSession, error) {
	s.item = item
	return &services.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func seedArtwork(t *testing.T, env *testEnv, title, status string) string {
	t.Helper()
	price := int64(90000)
	category := "landscape"
	a, err := env.catalog.CreateArtwork(context.Background(), services.ArtworkInput{
		Title: &title, PriceCents: &price, Category: &category, Status: &status,
	})
	require.NoError(t, err)
	return a.ID
}

func TestCreateCheckoutSession(t *testing.T) {
	gateway := &stubGateway{StripeGateway: services.NewStripeGateway("sk_test_unused")}
	env := newTestEnv(t, envOptions{gateway: gateway})
	available := seedArtwork(t, env, "Dusk", models.StatusAvailable)
	sold := seedArtwork(t, env, "Dawn", models.StatusSold)

	w := env.doForm(t, "/api/checkout/create-session", url.Values{"artworkId": {available}, "buyerEmail": {"buyer@example.com"}}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "cs_test_1", body["id"])
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", body["url"])
	assert.Equal(t, "Dusk", gateway.item.Title)
	assert.Equal(t, "buyer@example.com", gateway.item.BuyerEmail)

	w = env.doJSON(t, http.MethodPost, "/api/checkout/create-session", map[string]string{"artworkId": sold}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Artwork already sold", decode(t, w)["error"])

	w = env.doJSON(t, http.MethodPost, "/api/checkout/create-session", map[string]string{"artworkId": "missing"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/checkout/create-session", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCheckoutSession_NotConfigured(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	id := seedArtwork(t, env, "Dusk", models.StatusAvailable)

	w := env.doJSON(t, http.MethodPost, "/api/checkout/create-session", map[string]string{"artworkId": id}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckoutWebhook(t *testing.T) {
	env := newTestEnv(t, envOptions{
		gateway:       services.NewStripeGateway("sk_test_unused"),
		webhookSecret: testWebhookSecret,
	})
	id := seedArtwork(t, env, "Dusk", models.StatusAvailable)

	payload, err := json.Marshal(map[string]interface{}{
		"id":     "evt_test",
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_test_1",
				"object":   "checkout.session",
				"metadata": map[string]string{"artworkId": id},
			},
		},
	})
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testWebhookSecret})

	post := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook", bytes.NewReader(signed.Payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", sig)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := post("t=1,v1=deadbeef")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(signed.Header)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["received"])

	artwork, err := env.catalog.GetArtwork(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, artwork.Status)
}

func TestCheckoutWebhook_NotConfigured(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.doJSON(t, http.MethodPost, "/api/checkout/webhook", map[string]string{}, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Stripe webhook not configured. Add STRIPE_WEBHOOK_SECRET.", decode(t, w)["error"])
}
