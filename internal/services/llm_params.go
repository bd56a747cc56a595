package services

// Operation names an AI call for logs, metrics and traces
type Operation string

const (
	OperationCaption Operation = "caption"
	OperationStage   Operation = "stage"
)

const (
	captionTemperature = 0.7
	captionMaxTokens   = 250
)

// LLMParameters are the sampling settings for one operation
type LLMParameters struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// GetLLMParameters returns the settings for an operation. Staging sends no sampling
// parameters, the image model uses its defaults.
func GetLLMParameters(op Operation, model string) LLMParameters {
	switch op {
	case OperationCaption:
		return LLMParameters{
			Model:       model,
			Temperature: captionTemperature,
			MaxTokens:   captionMaxTokens,
		}
	default:
		return LLMParameters{Model: model}
	}
}
