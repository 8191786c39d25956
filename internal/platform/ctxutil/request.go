package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData is the authenticated identity attached by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user id or uuid.Nil.
func UserID(ctx context.Context) uuid.UUID {
	rd := GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type traceDataKey struct{}

// TraceData correlates log lines and spans for one request.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}
