package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// requests below this status count as successful
const successStatusCodeThreshold = http.StatusBadRequest

// SentryMetrics records measurements as Sentry spans on the request transaction
type SentryMetrics struct{}

// NewSentryMetrics creates a Sentry recorder. Spans are dropped when Sentry is not initialized.
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordAPIRequest records one request as an api.request span
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	success := statusCode < successStatusCodeThreshold
	span.Description = "API Request: " + endpoint
	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", strconv.Itoa(statusCode))
	span.SetTag("success", strconv.FormatBool(success))
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
}

// RecordGeneration records one caption or staging call
func (m *SentryMetrics) RecordGeneration(ctx context.Context, operation, model string, duration time.Duration, success bool) {
	span := sentry.StartSpan(ctx, "generation."+operation)
	defer span.Finish()

	span.Description = fmt.Sprintf("Generation %s: %s", operation, model)
	span.SetTag("model", model)
	span.SetTag("success", strconv.FormatBool(success))
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
}

// RecordTokenUsage tags the current transaction with caption token counts
func (m *SentryMetrics) RecordTokenUsage(ctx context.Context, model string, inputTokens, outputTokens, totalTokens int) {
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("ai.model", model)
		transaction.SetData("ai.input_tokens", inputTokens)
		transaction.SetData("ai.output_tokens", outputTokens)
		transaction.SetData("ai.total_tokens", totalTokens)
	}

	span := sentry.StartSpan(ctx, "ai.token_usage")
	defer span.Finish()

	span.Description = "Token Usage: " + model
	span.SetTag("model", model)
	span.SetData("input_tokens", inputTokens)
	span.SetData("output_tokens", outputTokens)
	span.SetData("total_tokens", totalTokens)
	span.Status = sentry.SpanStatusOK
}
