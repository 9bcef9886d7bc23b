package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span names.
const (
	SpanPopulate     = "delegate.populate"
	SpanFallbackScan = "delegate.fallback_scan"
)

// Class is the delegate class a span works on.
func Class(name string) attribute.KeyValue {
	return attribute.String("delegate.class", name)
}

// Method is the method a span resolves.
func Method(name string) attribute.KeyValue {
	return attribute.String("delegate.method", name)
}

// SignaturesAdded is the number of signatures a span added to the cache.
func SignaturesAdded(n int) attribute.KeyValue {
	return attribute.Int("delegate.signatures_added", n)
}

// Outcome is the result of a fallback scan.
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String("delegate.outcome", outcome)
}
