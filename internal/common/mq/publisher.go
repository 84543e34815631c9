// Package mq: Valkey 스트림 기반 발행/소비를 제공한다.
package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

// StreamPublisherConfig: 발행 대상 스트림과 최대 길이
type StreamPublisherConfig struct {
	Stream string
	MaxLen int64
}

// StreamPublisher: 스트림으로 메시지를 XADD 한다.
type StreamPublisher struct {
	client valkey.Client
	logger *slog.Logger
	cfg    StreamPublisherConfig
}

// NewStreamPublisher: StreamPublisher 를 생성한다.
func NewStreamPublisher(client valkey.Client, logger *slog.Logger, cfg StreamPublisherConfig) *StreamPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamPublisher{client: client, logger: logger, cfg: cfg}
}

// Publish: values 를 스트림 메시지로 발행하고 메시지 ID 를 반환한다.
// 현재 trace context 가 있으면 메시지 필드로 함께 전달된다.
func (p *StreamPublisher) Publish(ctx context.Context, values map[string]string) (string, error) {
	if len(values) == 0 {
		return "", cerrors.QueueError{Operation: "xadd", Stream: p.cfg.Stream, Err: errors.New("no values to publish")}
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	fieldValues := make([]string, 0, (len(values)+len(carrier))*2)
	for k, v := range values {
		fieldValues = append(fieldValues, k, v)
	}
	for k, v := range carrier {
		if _, exists := values[k]; !exists {
			fieldValues = append(fieldValues, k, v)
		}
	}

	var args []string
	if p.cfg.MaxLen > 0 {
		args = append(args, "MAXLEN", "~", strconv.FormatInt(p.cfg.MaxLen, 10))
	}
	args = append(args, "*")
	args = append(args, fieldValues...)

	cmd := p.client.B().Arbitrary("XADD").Keys(p.cfg.Stream).Args(args...).Build()
	id, err := p.client.Do(ctx, cmd).ToString()
	if err != nil {
		return "", cerrors.QueueError{Operation: "xadd", Stream: p.cfg.Stream, Err: fmt.Errorf("xadd failed: %w", err)}
	}

	p.logger.DebugContext(ctx, "message_published", "stream", p.cfg.Stream, "id", id)
	return id, nil
}
