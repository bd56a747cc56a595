package media

import (
	"context"
	"encoding/base64"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/logger"
)

const (
	dataURIPrefix = "data:"
	base64Marker  = ";base64"

	// FetchTimeout bounds the remote image download
	FetchTimeout = 60 * time.Second
)

// Acquirer turns a Source into an Image, downloading remote URLs when needed
type Acquirer struct {
	client *resty.Client
	allow  AddressPolicy
}

// Option configures an Acquirer
type Option func(*Acquirer)

// WithPrivateNetworkBlock refuses connections to private, loopback or link-local addresses
func WithPrivateNetworkBlock() Option {
	return WithAddressPolicy(PublicOnly)
}

// WithAddressPolicy checks every dialed address, redirect hops included, against allow
func WithAddressPolicy(allow AddressPolicy) Option {
	return func(a *Acquirer) {
		a.allow = allow
	}
}

// NewAcquirer creates an Acquirer with a 60s fetch timeout
func NewAcquirer(opts ...Option) *Acquirer {
	a := &Acquirer{}
	for _, opt := range opts {
		opt(a)
	}

	hc := &http.Client{}
	if a.allow != nil {
		hc.Transport = guardedTransport(a.allow)
	}
	a.client = resty.NewWithClient(hc).
		SetTimeout(FetchTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects), httpOnlyRedirects)
	return a
}

// Acquire normalizes the source. Inline data is never validated beyond the data: header;
// the provider rejects bad base64 itself.
func (a *Acquirer) Acquire(ctx context.Context, src Source) (Image, error) {
	if src.Empty() {
		return Image{}, apperr.New(apperr.KindMissingInput, "Provide imageUrl or imageData")
	}
	if data := strings.TrimSpace(src.Data); data != "" {
		return ParseInline(data)
	}
	return a.fetch(ctx, strings.TrimSpace(src.URL))
}

// ParseInline accepts a base64 data: URI or a bare base64 payload
func ParseInline(data string) (Image, error) {
	if !strings.HasPrefix(data, dataURIPrefix) {
		return Image{MIMEType: DefaultMIMEType, Base64: data}, nil
	}

	header, payload, found := strings.Cut(data, ",")
	if !found || !strings.Contains(header, base64Marker) {
		return Image{}, apperr.New(apperr.KindInvalidInput, "Invalid imageData data URL")
	}

	mimeType, _, _ := strings.Cut(strings.TrimPrefix(header, dataURIPrefix), ";")
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return Image{MIMEType: mimeType, Base64: payload}, nil
}

func (a *Acquirer) fetch(ctx context.Context, rawURL string) (Image, error) {
	if err := checkURL(rawURL); err != nil {
		return Image{}, err
	}

	start := time.Now()
	resp, err := a.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		if isRestricted(err) {
			return Image{}, apperr.Wrap(apperr.KindInvalidInput, err, "imageUrl rejected")
		}
		return Image{}, apperr.Transport(apperr.KindUpstreamFetch, err, "Could not fetch imageUrl")
	}
	if resp.StatusCode() != http.StatusOK {
		logger.Warn("Image fetch returned non-200", logger.Fields{
			"url":    rawURL,
			"status": resp.StatusCode(),
		})
		return Image{}, apperr.FetchFailed(resp.StatusCode())
	}

	logger.Debug("Image fetched", logger.Fields{
		"url":         rawURL,
		"bytes":       len(resp.Body()),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return Image{
		MIMEType: detectMIME(resp.Header().Get("Content-Type"), rawURL),
		Base64:   base64.StdEncoding.EncodeToString(resp.Body()),
	}, nil
}

func checkURL(rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || checkScheme(u.Scheme) != nil {
		return apperr.New(apperr.KindInvalidInput, "imageUrl must be an http(s) URL")
	}
	return nil
}

// detectMIME prefers the response header, then the URL extension, then the default
func detectMIME(contentType, rawURL string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType != "" {
			return mediaType
		}
		return contentType
	}

	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			if guessed := mime.TypeByExtension(ext); guessed != "" {
				mediaType, _, _ := strings.Cut(guessed, ";")
				return mediaType
			}
		}
	}

	return DefaultMIMEType
}
