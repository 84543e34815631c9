package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type dispatchKey struct{}

// dispatchFields: 업데이트 하나를 처리하는 동안 모든 로그에 붙는 값
type dispatchFields struct {
	bot       string
	requestID string
	action    string
}

func fieldsFrom(ctx context.Context) dispatchFields {
	if ctx == nil {
		return dispatchFields{}
	}
	f, _ := ctx.Value(dispatchKey{}).(dispatchFields)
	return f
}

// WithBot: 처리 중인 봇 아이디를 ctx 에 기록한다.
func WithBot(ctx context.Context, botID string) context.Context {
	f := fieldsFrom(ctx)
	f.bot = botID
	return context.WithValue(ctx, dispatchKey{}, f)
}

// WithRequestID: 웹훅 요청 ID 를 ctx 에 기록한다.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	f := fieldsFrom(ctx)
	f.requestID = requestID
	return context.WithValue(ctx, dispatchKey{}, f)
}

// WithAction: 실행 중인 액션 이름을 ctx 에 기록한다.
func WithAction(ctx context.Context, action string) context.Context {
	f := fieldsFrom(ctx)
	f.action = action
	return context.WithValue(ctx, dispatchKey{}, f)
}

// BotFrom: ctx 에 기록된 봇 아이디. 없으면 "".
func BotFrom(ctx context.Context) string { return fieldsFrom(ctx).bot }

// RequestIDFrom: ctx 에 기록된 요청 ID. 없으면 "".
func RequestIDFrom(ctx context.Context) string { return fieldsFrom(ctx).requestID }

// ContextHandler: slog.Handler 를 감싸 ctx 의 봇/요청/액션 값과 현재 span 의 trace_id/span_id 를 붙인다.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler: inner 를 감싼 ContextHandler 를 생성한다.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	f := fieldsFrom(ctx)
	if f.bot != "" {
		record.AddAttrs(slog.String("bot", f.bot))
	}
	if f.requestID != "" {
		record.AddAttrs(slog.String("request_id", f.requestID))
	}
	if f.action != "" {
		record.AddAttrs(slog.String("action", f.action))
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	//nolint:wrapcheck // slog.Handler interface implementation
	return h.inner.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
