package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// requestScope is what the HTTP layer knows about the caller. It is copied
// on every change so a parent context never sees a child's fields.
type requestScope struct {
	logger    *zap.Logger
	requestID string
	clientIP  string
	userID    string
}

func scopeFrom(ctx context.Context) requestScope {
	if s, ok := ctx.Value(scopeKey{}).(requestScope); ok {
		return s
	}
	return requestScope{}
}

func withScope(ctx context.Context, s requestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext stores logger in ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return withScope(ctx, s)
}

// FromContext returns the request logger, or a no-op logger outside a request
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// Ctx is FromContext plus the trace and span IDs of the active span
func Ctx(ctx context.Context) *zap.Logger {
	return WithTraceContext(ctx, FromContext(ctx))
}

// WithRequestID records the request ID and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.requestID = requestID
	s.logger = logger.With(zap.String("request_id", requestID))
	return withScope(ctx, s), s.logger
}

// WithClientIP records the caller's address and returns the enriched logger
func WithClientIP(ctx context.Context, logger *zap.Logger, ip string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.clientIP = ip
	s.logger = logger.With(zap.String("client_ip", ip))
	return withScope(ctx, s), s.logger
}

// WithUserID records the signed-in admin and returns the enriched logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.userID = userID
	s.logger = logger.With(zap.String("user_id", userID))
	return withScope(ctx, s), s.logger
}

func GetRequestID(ctx context.Context) string { return scopeFrom(ctx).requestID }

func GetClientIP(ctx context.Context) string { return scopeFrom(ctx).clientIP }

func GetUserID(ctx context.Context) string { return scopeFrom(ctx).userID }

// GetTraceID returns the active trace ID, or "" without a valid span
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// WithTraceContext adds trace_id and span_id from the active span.
// Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
