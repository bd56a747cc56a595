package metrics

import (
	"context"
	"time"
)

// Recorder receives request and AI generation measurements
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, operation, model string, duration time.Duration, success bool)
	RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens, totalTokens int)
}

// Fanout forwards every measurement to each recorder in order
type Fanout []Recorder

func (f Fanout) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range f {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

func (f Fanout) RecordGeneration(ctx context.Context, operation, model string, duration time.Duration, success bool) {
	for _, r := range f {
		r.RecordGeneration(ctx, operation, model, duration, success)
	}
}

func (f Fanout) RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens, totalTokens int) {
	for _, r := range f {
		r.RecordTokenUsage(ctx, model, inputTokens, outputTokens, totalTokens)
	}
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration)          {}
func (Nop) RecordGeneration(context.Context, string, string, time.Duration, bool) {}
func (Nop) RecordTokenUsage(context.Context, string, int, int, int)               {}
