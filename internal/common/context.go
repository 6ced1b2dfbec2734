package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyPONumber  contextKey = "po_number"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithPONumber adds the purchase-order number being processed to the context
func WithPONumber(ctx context.Context, poNumber string) context.Context {
	return context.WithValue(ctx, ContextKeyPONumber, poNumber)
}

// PONumberFromContext extracts the purchase-order number from context
func PONumberFromContext(ctx context.Context) string {
	if po, ok := ctx.Value(ContextKeyPONumber).(string); ok {
		return po
	}
	return ""
}

// WithTimeout creates a context with the specified timeout; a non-positive
// timeout only adds cancellation.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
