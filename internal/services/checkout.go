package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/models"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	checkoutCurrency       = "eur"
	metadataArtworkID      = "artworkId"
	eventCheckoutCompleted = "checkout.session.completed"
)

// CheckoutItem is what the buyer pays for
type CheckoutItem struct {
	ArtworkID  string
	Title      string
	ImageURL   string
	PriceCents int64
	BuyerEmail string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the hosted payment page handed back to the storefront
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentGateway creates hosted checkout sessions and verifies webhook deliveries
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, item CheckoutItem) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and returns the event type and its data object
	ParseWebhook(payload []byte, signature, secret string) (eventType string, object json.RawMessage, err error)
}

// StripeGateway implements PaymentGateway with the Stripe API
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, item CheckoutItem) (*CheckoutSession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(item.Title),
	}
	if item.ImageURL != "" {
		product.Images = stripe.StringSlice([]string{item.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "sepa_debit"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(checkoutCurrency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.PriceCents),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(item.SuccessURL),
		CancelURL:  stripe.String(item.CancelURL),
	}
	if item.BuyerEmail != "" {
		params.CustomerEmail = stripe.String(item.BuyerEmail)
	}
	params.AddMetadata(metadataArtworkID, item.ArtworkID)
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature, secret string) (string, json.RawMessage, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return "", nil, err
	}
	var raw json.RawMessage
	if event.Data != nil {
		raw = event.Data.Raw
	}
	return string(event.Type), raw, nil
}

// CheckoutService sells artworks through the payment gateway
type CheckoutService struct {
	catalog       *CatalogService
	gateway       PaymentGateway
	frontendURL   string
	webhookSecret string
}

// NewCheckoutService wires checkout. gateway is nil when no usable Stripe key is configured.
func NewCheckoutService(catalog *CatalogService, gateway PaymentGateway, frontendURL, webhookSecret string) *CheckoutService {
	return &CheckoutService{
		catalog:       catalog,
		gateway:       gateway,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		webhookSecret: webhookSecret,
	}
}

// CreateSession opens a checkout for one available artwork
func (s *CheckoutService) CreateSession(ctx context.Context, artworkID, buyerEmail string) (*CheckoutSession, error) {
	artwork, err := s.catalog.GetArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if artwork.Status == models.StatusSold {
		return nil, apperr.New(apperr.KindInvalidInput, "Artwork already sold")
	}
	if s.gateway == nil {
		return nil, apperr.New(apperr.KindNotConfigured, "Stripe not configured. Add STRIPE_SECRET_KEY and STRIPE_PUBLISHABLE_KEY.")
	}

	item := CheckoutItem{
		ArtworkID:  artwork.ID,
		Title:      artwork.Title,
		PriceCents: artwork.PriceCents,
		BuyerEmail: strings.TrimSpace(buyerEmail),
		SuccessURL: s.frontendURL + "/checkout-success?sid={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/checkout-cancel",
	}
	if artwork.ImageURL != nil {
		item.ImageURL = *artwork.ImageURL
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, item)
	if err != nil {
		logger.Error("Stripe session error", err, logger.Fields{"artwork_id": artwork.ID})
		return nil, apperr.Wrap(apperr.KindInternal, err, "Stripe session error")
	}
	return sess, nil
}

// HandleWebhook verifies a delivery and marks the artwork of a completed checkout as sold
func (s *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret == "" || s.gateway == nil {
		return apperr.New(apperr.KindNotConfigured, "Stripe webhook not configured. Add STRIPE_WEBHOOK_SECRET.")
	}

	eventType, object, err := s.gateway.ParseWebhook(payload, signature, s.webhookSecret)
	if err != nil {
		return apperr.New(apperr.KindInvalidInput, "Webhook error: %v", err)
	}
	if eventType != eventCheckoutCompleted {
		return nil
	}

	var session struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(object, &session); err != nil {
		return apperr.New(apperr.KindInvalidInput, "Webhook error: %v", err)
	}

	artworkID := session.Metadata[metadataArtworkID]
	if artworkID == "" {
		logger.Warn("Completed checkout without artwork metadata", logger.Fields{"session_id": session.ID})
		return nil
	}
	if err := s.catalog.MarkSold(ctx, artworkID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			logger.Warn("Completed checkout for unknown artwork", logger.Fields{"artwork_id": artworkID})
			return nil
		}
		return fmt.Errorf("mark artwork sold: %w", err)
	}

	logger.Info("Artwork sold", logger.Fields{"artwork_id": artworkID, "session_id": session.ID})
	return nil
}
