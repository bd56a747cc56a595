package media

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fakePNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x01}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMIME string
		wantData string
		wantKind apperr.Kind
	}{
		{
			name:     "png data url",
			input:    "data:image/png;base64,AAAA",
			wantMIME: "image/png",
			wantData: "AAAA",
		},
		{
			name:     "webp with extra parameters",
			input:    "data:image/webp;charset=binary;base64,QUJD",
			wantMIME: "image/webp",
			wantData: "QUJD",
		},
		{
			name:     "empty mime falls back to jpeg",
			input:    "data:;base64,QUJD",
			wantMIME: DefaultMIMEType,
			wantData: "QUJD",
		},
		{
			name:     "raw base64",
			input:    "QUJDRA==",
			wantMIME: DefaultMIMEType,
			wantData: "QUJDRA==",
		},
		{
			name:     "missing base64 marker",
			input:    "data:image/png,AAAA",
			wantKind: apperr.KindInvalidInput,
		},
		{
			name:     "missing comma",
			input:    "data:image/png;base64",
			wantKind: apperr.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseInline(tt.input)
			if tt.wantKind != apperr.KindInternal {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, tt.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
			assert.Equal(t, tt.wantData, img.Base64)
		})
	}
}

func TestAcquire_MissingInput(t *testing.T) {
	_, err := NewAcquirer().Acquire(context.Background(), Source{URL: "  ", Data: ""})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindMissingInput))
}

func TestAcquire_DataWinsOverURL(t *testing.T) {
	img, err := NewAcquirer().Acquire(context.Background(), Source{
		URL:  "http://127.0.0.1:1/never-called.png",
		Data: "data:image/gif;base64,R0lG",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.MIMEType)
	assert.Equal(t, "data:image/gif;base64,R0lG", img.DataURL())
}

func TestAcquire_FetchesURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/typed":
			w.Header().Set("Content-Type", "image/png; charset=binary")
			_, _ = w.Write(fakePNG)
		case "/painting.webp":
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(fakePNG)
		case "/unknown":
			w.Header()["Content-Type"] = nil
			_, _ = w.Write(fakePNG)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	acquirer := NewAcquirer()

	tests := []struct {
		path     string
		wantMIME string
	}{
		{"/typed", "image/png"},
		{"/painting.webp", "image/webp"},
		{"/unknown", DefaultMIMEType},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			img, err := acquirer.Acquire(context.Background(), Source{URL: server.URL + tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
			assert.Equal(t, base64.StdEncoding.EncodeToString(fakePNG), img.Base64)
		})
	}
}

func TestAcquire_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewAcquirer().Acquire(context.Background(), Source{URL: server.URL + "/x.jpg"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstreamFetch))
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}

func TestAcquire_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write(fakePNG)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewAcquirer().Acquire(ctx, Source{URL: server.URL})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindTimeout))
}

func TestAcquire_RejectsScheme(t *testing.T) {
	_, err := NewAcquirer().Acquire(context.Background(), Source{URL: "file:///etc/passwd"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestAcquire_PrivateNetworkBlock(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(fakePNG)
	}))
	defer server.Close()

	_, err := NewAcquirer(WithPrivateNetworkBlock()).Acquire(context.Background(), Source{URL: server.URL})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
	assert.Zero(t, hits.Load())
}

// allowOnly treats the given test server as the only public host
func allowOnly(t *testing.T, server *httptest.Server) AddressPolicy {
	t.Helper()
	allowed, err := netip.ParseAddrPort(server.Listener.Addr().String())
	require.NoError(t, err)
	return func(addr netip.AddrPort) bool {
		return addr == allowed
	}
}

func TestAcquire_RedirectToBlockedAddress(t *testing.T) {
	var internalHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		internalHits.Add(1)
		_, _ = w.Write([]byte("instance credentials"))
	}))
	defer internal.Close()

	public := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metadata":
			http.Redirect(w, r, internal.URL+"/latest/meta-data", http.StatusFound)
		case "/moved":
			http.Redirect(w, r, "/painting.png", http.StatusFound)
		case "/painting.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(fakePNG)
		default:
			http.NotFound(w, r)
		}
	}))
	defer public.Close()

	acquirer := NewAcquirer(WithAddressPolicy(allowOnly(t, public)))

	t.Run("blocked hop", func(t *testing.T) {
		_, err := acquirer.Acquire(context.Background(), Source{URL: public.URL + "/metadata"})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
		assert.Contains(t, err.Error(), "imageUrl rejected")
		assert.Zero(t, internalHits.Load())
	})

	t.Run("allowed hop", func(t *testing.T) {
		img, err := acquirer.Acquire(context.Background(), Source{URL: public.URL + "/moved"})
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MIMEType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(fakePNG), img.Base64)
	})
}

func TestPublicOnly(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"93.184.216.34:443", true},
		{"[2606:4700::1111]:443", true},
		{"127.0.0.1:80", false},
		{"[::1]:80", false},
		{"10.0.0.5:80", false},
		{"192.168.1.10:8080", false},
		{"169.254.169.254:80", false},
		{"0.0.0.0:80", false},
		{"[fe80::1]:80", false},
		{"[::ffff:10.0.0.1]:80", false},
		{"[fd00::1]:80", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicOnly(netip.MustParseAddrPort(tt.addr)))
		})
	}
}
