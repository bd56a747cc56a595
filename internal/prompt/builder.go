package prompt

import (
	"fmt"
	"strings"
)

// Scene keys understood by the staging prompt
const (
	SceneEasel   = "easel"
	SceneWall    = "wall"
	SceneGallery = "gallery"
	SceneStudio  = "studio"

	DefaultScene = SceneEasel
)

const (
	langGerman  = "de"
	langEnglish = "en"
)

// Builder composes the staging and caption instructions
type Builder struct {
	loader        *Loader
	defaultSystem string
}

// NewPromptBuilder creates a builder. A non-empty systemOverride replaces the embedded caption persona.
func NewPromptBuilder(loader *Loader, systemOverride string) *Builder {
	system := strings.TrimSpace(systemOverride)
	if system == "" {
		system = loader.GetCaptionSystemPrompt()
	}
	return &Builder{
		loader:        loader,
		defaultSystem: system,
	}
}

// NormalizeScene maps unknown or empty keys to the easel scene
func NormalizeScene(scene string) string {
	switch key := strings.ToLower(strings.TrimSpace(scene)); key {
	case SceneEasel, SceneWall, SceneGallery, SceneStudio:
		return key
	default:
		return DefaultScene
	}
}

// IsGerman reports whether a language code selects German output
func IsGerman(lang string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(lang)), langGerman)
}

// StagingPrompt builds the image-generation instruction. It is a pure function of its inputs.
func (b *Builder) StagingPrompt(scene, extra, lang string) string {
	sceneText, _ := b.loader.GetScene(NormalizeScene(scene))

	realism := b.loader.GetRealismDirective(langEnglish)
	if IsGerman(lang) {
		realism = b.loader.GetRealismDirective(langGerman)
	}

	parts := []string{
		sceneText,
		b.loader.GetAspectDirective(),
		b.loader.GetPreservationDirective(),
		realism,
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		parts = append(parts, extra)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// CaptionInput carries the artwork facts the caption prompt mentions
type CaptionInput struct {
	Title      string
	Year       int // 0 when unknown
	Medium     string
	Dimensions string
	Lang       string
	System     string // per-request persona override
}

// CaptionPrompt is the system/user message pair sent to the chat model
type CaptionPrompt struct {
	System string
	User   string
}

// CaptionPrompt builds messages that demand exactly a DESC: line and a TAGS: line.
// The caption parser relies on that two-line shape.
func (b *Builder) CaptionPrompt(in CaptionInput) CaptionPrompt {
	system := strings.TrimSpace(in.System)
	if system == "" {
		system = b.defaultSystem
	}

	language := "English"
	if IsGerman(in.Lang) {
		language = "German"
	}

	yearNote := ""
	if in.Year != 0 {
		yearNote = fmt.Sprintf(" (%d)", in.Year)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Language: %s.\n", language)
	sb.WriteString("Return EXACTLY two lines:\n")
	sb.WriteString("1) DESC: A short (1–2 sentences) natural description in the requested language, as if the artist is speaking. ")
	fmt.Fprintf(&sb, "Include medium, year%s, and size ('%s' if present) naturally. ", yearNote, in.Dimensions)
	sb.WriteString("No emojis. No hashtags in this line.\n")
	sb.WriteString("2) TAGS: exactly 5 additional, relevant hashtags (no spaces inside tags), space-separated, no explanations.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", in.Title)
	if in.Year != 0 {
		fmt.Fprintf(&sb, "Year: %d\n", in.Year)
	}
	if in.Medium != "" {
		fmt.Fprintf(&sb, "Medium: %s\n", in.Medium)
	}
	if in.Dimensions != "" {
		fmt.Fprintf(&sb, "Dimensions: %s\n", in.Dimensions)
	}

	return CaptionPrompt{System: system, User: sb.String()}
}
