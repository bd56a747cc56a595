package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpart-gallery/gallery-api/pkg/embedded"
)

type stagingTemplates struct {
	Scenes   map[string]string `json:"scenes"`
	Aspect   string            `json:"aspect"`
	Preserve string            `json:"preserve"`
	Realism  map[string]string `json:"realism"`
}

// Loader exposes the embedded prompt templates
type Loader struct {
	captionSystem string
	staging       stagingTemplates
}

// NewPromptLoader parses the embedded templates
func NewPromptLoader() (*Loader, error) {
	var staging stagingTemplates
	if err := json.Unmarshal(embedded.StagingJSON, &staging); err != nil {
		return nil, fmt.Errorf("failed to parse staging templates: %w", err)
	}
	if _, ok := staging.Scenes[DefaultScene]; !ok {
		return nil, fmt.Errorf("staging templates lack the %q scene", DefaultScene)
	}

	return &Loader{
		captionSystem: strings.TrimSpace(string(embedded.CaptionSystemTxt)),
		staging:       staging,
	}, nil
}

// GetCaptionSystemPrompt returns the default copywriter persona
func (l *Loader) GetCaptionSystemPrompt() string {
	return l.captionSystem
}

// GetScene returns the scene description for key
func (l *Loader) GetScene(key string) (string, bool) {
	text, ok := l.staging.Scenes[key]
	return text, ok
}

// GetAspectDirective returns the output-format directive
func (l *Loader) GetAspectDirective() string {
	return l.staging.Aspect
}

// GetPreservationDirective returns the do-not-alter-the-artwork directive
func (l *Loader) GetPreservationDirective() string {
	return l.staging.Preserve
}

// GetRealismDirective returns the realism directive for "de" or "en"
func (l *Loader) GetRealismDirective(language string) string {
	return l.staging.Realism[language]
}
