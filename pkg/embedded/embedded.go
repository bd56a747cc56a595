package embedded

import (
	_ "embed"
)

// Prompt templates shipped with the binary
//
//go:embed data/prompts/caption_system.txt
var CaptionSystemTxt []byte

//go:embed data/prompts/staging.json
var StagingJSON []byte
