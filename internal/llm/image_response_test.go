package llm

import (
	"testing"

	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractInlineImage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantMIME string
		wantData string
		wantKind apperr.Kind
	}{
		{
			name:     "camel case",
			body:     `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/webp","data":"AAAA"}}]}}]}`,
			wantMIME: "image/webp",
			wantData: "AAAA",
		},
		{
			name:     "snake case",
			body:     `{"candidates":[{"content":{"parts":[{"inline_data":{"mime_type":"image/jpeg","data":"BBBB"}}]}}]}`,
			wantMIME: "image/jpeg",
			wantData: "BBBB",
		},
		{
			name:     "text part first",
			body:     `{"candidates":[{"content":{"parts":[{"text":"Here you go"},{"inlineData":{"mimeType":"image/png","data":"CCCC"}}]}}]}`,
			wantMIME: "image/png",
			wantData: "CCCC",
		},
		{
			name:     "snake case wins within one part",
			body:     `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"CAMEL"},"inline_data":{"mime_type":"image/gif","data":"SNAKE"}}]}}]}`,
			wantMIME: "image/gif",
			wantData: "SNAKE",
		},
		{
			name:     "empty data is skipped",
			body:     `{"candidates":[{"content":{"parts":[{"inline_data":{"mime_type":"image/gif","data":""}},{"inlineData":{"data":"DDDD"}}]}}]}`,
			wantMIME: "image/png",
			wantData: "DDDD",
		},
		{
			name:     "only text",
			body:     `{"candidates":[{"content":{"parts":[{"text":"I cannot do that"}]}}]}`,
			wantKind: apperr.KindNoImageInResponse,
		},
		{
			name:     "no candidates",
			body:     `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			wantKind: apperr.KindNoImageInResponse,
		},
		{
			name:     "not json",
			body:     `<html>oops</html>`,
			wantKind: apperr.KindGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ExtractInlineImage([]byte(tt.body))
			if tt.wantKind != apperr.KindInternal {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, tt.wantKind), "got %v", apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, img.MIMEType)
			assert.Equal(t, tt.wantData, img.Base64)
		})
	}
}
