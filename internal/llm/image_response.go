package llm

import (
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/media"
	"github.com/tidwall/gjson"
)

const defaultGeneratedMIME = "image/png"

// inlineField is one spelling of the inline image field in a response part
type inlineField struct {
	object string
	mime   string
}

// inlineFields lists the accepted spellings in lookup order
var inlineFields = []inlineField{
	{object: "inline_data", mime: "mime_type"},
	{object: "inlineData", mime: "mimeType"},
}

// ExtractInlineImage returns the first inline image among candidates[0].content.parts
func ExtractInlineImage(body []byte) (media.Image, error) {
	if !gjson.ValidBytes(body) {
		return media.Image{}, apperr.New(apperr.KindGateway, "Gemini request error: response is not valid JSON")
	}

	parts := gjson.GetBytes(body, "candidates.0.content.parts")
	for _, part := range parts.Array() {
		for _, field := range inlineFields {
			blob := part.Get(field.object)
			data := blob.Get("data").String()
			if data == "" {
				continue
			}
			mimeType := blob.Get(field.mime).String()
			if mimeType == "" {
				mimeType = defaultGeneratedMIME
			}
			return media.Image{MIMEType: mimeType, Base64: data}, nil
		}
	}

	return media.Image{}, apperr.New(apperr.KindNoImageInResponse,
		"Could not parse image from Gemini response: no inline image in response")
}
