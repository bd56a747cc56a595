package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCarouselImages(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr string
	}{
		{"valid", `[" https://a/1.jpg ", "https://a/2.jpg"]`, []string{"https://a/1.jpg", "https://a/2.jpg"}, ""},
		{"missing", ``, nil, "'images' must be a non-empty array"},
		{"not an array", `"https://a/1.jpg"`, nil, "'images' must be a non-empty array"},
		{"empty", `[]`, nil, "'images' must be a non-empty array"},
		{"blank entry", `["https://a/1.jpg", "  "]`, nil, "Each image must be a non-empty string URL."},
		{"number entry", `["https://a/1.jpg", 3]`, nil, "Each image must be a non-empty string URL."},
		{"single", `["https://a/1.jpg"]`, nil, "Carousel requires at least 2 images."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCarouselImages(json.RawMessage(tt.raw))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstagramRelay_CheckSecret(t *testing.T) {
	relay := NewInstagramRelay("", "ig-secret", "")
	assert.NoError(t, relay.CheckSecret(""))
	assert.NoError(t, relay.CheckSecret("ig-secret"))

	err := relay.CheckSecret("nope")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "bad secret", err.Error())
}

func TestInstagramRelay_QueueCarousel(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("Accepted"))
	}))
	defer server.Close()

	relay := NewInstagramRelay(server.URL, "ig-secret", "")
	err := relay.Queue(context.Background(), InstagramPost{
		Images:   []string{"https://a/1.jpg", "https://a/2.jpg"},
		Caption:  "Dusk",
		Carousel: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Dusk", got["caption"])
	assert.Equal(t, "ig-secret", got["secret"])
	files := got["files"].([]interface{})
	require.Len(t, files, 2)
	assert.Equal(t, map[string]interface{}{"image_url": "https://a/1.jpg", "media_type": "IMAGE"}, files[0])
}

func TestInstagramRelay_QueueSingle(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer server.Close()

	err := NewInstagramRelay(server.URL, "s", "").Queue(context.Background(), InstagramPost{Images: []string{"https://a/1.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{map[string]interface{}{"URL": "https://a/1.jpg"}}, got["files"])
	assert.Equal(t, []interface{}{"https://a/1.jpg"}, got["images"])
}

func TestInstagramRelay_UpstreamError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"json error field", `{"error":"scenario is off"}`, "Make error (400): scenario is off"},
		{"plain text", `Bad Request`, "Make error (400): Bad Request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewInstagramRelay(server.URL, "s", "").Queue(context.Background(), InstagramPost{Images: []string{"u"}})
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestInstagramRelay_ForwardFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewInstagramRelay(url, "s", "").Queue(context.Background(), InstagramPost{Images: []string{"u"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperr.StatusCode(err))
	assert.Contains(t, err.Error(), "forward failed: ")
}

func TestInstagramRelay_NotConfigured(t *testing.T) {
	err := NewInstagramRelay("", "s", "").Queue(context.Background(), InstagramPost{Images: []string{"u"}})
	assert.True(t, apperr.Is(err, apperr.KindNotConfigured))
}

func TestInstagramRelay_Diag(t *testing.T) {
	result, err := NewInstagramRelay("", "", "").Diag(context.Background())
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.False(t, result.HookSet)

	var ping map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ping))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accepted":true}`))
	}))
	defer server.Close()

	result, err = NewInstagramRelay(server.URL, "", "sign").Diag(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.JSONEq(t, `{"accepted":true}`, string(result.Body.(json.RawMessage)))
	assert.Equal(t, true, ping["ping"])
	assert.Equal(t, "sign", ping["secret"])
}
