package media

import (
	"fmt"
	"strings"
)

// DefaultMIMEType is assumed when neither the payload nor the remote server names one
const DefaultMIMEType = "image/jpeg"

// Source is the image reference a caller supplied. Data wins over URL.
type Source struct {
	URL  string
	Data string
}

// Empty reports whether neither reference is usable
func (s Source) Empty() bool {
	return strings.TrimSpace(s.URL) == "" && strings.TrimSpace(s.Data) == ""
}

// Image is a base64 payload with its MIME type
type Image struct {
	MIMEType string
	Base64   string
}

// DataURL renders the image as an inline data: URI
func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIMEType, i.Base64)
}
