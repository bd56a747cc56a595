package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

const stripeSignatureHeader = "Stripe-Signature"

type CheckoutHandler struct {
	checkout *services.CheckoutService
}

func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CreateSessionRequest is accepted as a form post or as JSON
type CreateSessionRequest struct {
	ArtworkID  string `json:"artworkId" form:"artworkId" binding:"required"`
	BuyerEmail string `json:"buyerEmail" form:"buyerEmail" binding:"omitempty,email"`
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), req.ArtworkID, req.BuyerEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": session.ID, "url": session.URL})
}

// Webhook verifies the Stripe signature over the raw body
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.checkout.HandleWebhook(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
