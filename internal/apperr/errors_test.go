package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not configured", New(KindNotConfigured, "AI not configured. Set OPENAI_API_KEY."), http.StatusServiceUnavailable},
		{"invalid input", New(KindInvalidInput, "Invalid imageData data URL"), http.StatusBadRequest},
		{"missing input", New(KindMissingInput, "Provide imageUrl or imageData"), http.StatusBadRequest},
		{"fetch failed", FetchFailed(404), http.StatusBadRequest},
		{"provider", Wrap(KindAIProvider, errors.New("rate limited"), "AI error"), http.StatusInternalServerError},
		{"gateway", New(KindGateway, "Gemini request error"), http.StatusBadGateway},
		{"upstream forwarded", Upstream(http.StatusTooManyRequests, "quota"), http.StatusTooManyRequests},
		{"no image", New(KindNoImageInResponse, "no image"), http.StatusInternalServerError},
		{"timeout", New(KindTimeout, "deadline"), http.StatusGatewayTimeout},
		{"forbidden", New(KindForbidden, "Bootstrap not allowed after users exist"), http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("stage: %w", New(KindNotFound, "Artwork not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindGateway, cause, "Gemini request error")

	assert.Equal(t, "Gemini request error: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindGateway))
	assert.False(t, Is(err, KindTimeout))
	assert.Equal(t, "GatewayError", KindOf(err).String())
}

func TestIs_Nil(t *testing.T) {
	assert.False(t, Is(nil, KindInternal))
}

func TestTransport_DetectsDeadline(t *testing.T) {
	err := Transport(KindGateway, fmt.Errorf("post: %w", context.DeadlineExceeded), "Gemini request error")
	assert.True(t, Is(err, KindTimeout))
	assert.Equal(t, http.StatusGatewayTimeout, StatusCode(err))

	err = Transport(KindGateway, errors.New("connection refused"), "Gemini request error")
	assert.True(t, Is(err, KindGateway))
}
