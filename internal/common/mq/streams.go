package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/valkeyx"
)

// StreamConsumerConfig: 컨슈머 그룹 소비 설정
type StreamConsumerConfig struct {
	Stream string
	Group  string
	Name   string

	BatchSize   int64
	Block       time.Duration
	Concurrency int

	// AckOnError: 핸들러가 실패해도 ACK 한다. false 면 메시지는 pending 으로 남는다.
	AckOnError bool
	// GroupStartFrom: 그룹 생성 시 시작 ID. 기본 "0" (생성 전 적재된 메시지부터).
	GroupStartFrom string

	// ClaimMinIdle: 이 시간 이상 ACK 되지 않은 pending 메시지를 XAUTOCLAIM 으로 다시 가져온다.
	// 기본 1분, 음수면 재처리하지 않는다.
	ClaimMinIdle time.Duration
	// ClaimInterval: Run 에서 pending 재처리를 시도하는 주기. 기본 30초.
	ClaimInterval time.Duration

	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// XMessage: 스트림에서 읽은 메시지
type XMessage struct {
	ID     string
	Values map[string]string
}

// Handler: 메시지 처리 함수
type Handler func(ctx context.Context, msg XMessage) error

// StreamConsumer: 컨슈머 그룹으로 스트림 메시지를 처리한다.
type StreamConsumer struct {
	client valkey.Client
	logger *slog.Logger
	cfg    StreamConsumerConfig
}

var consumerTracer = otel.Tracer("potato-bot-go/valkey-consumer")

// NewStreamConsumer: StreamConsumer 를 생성한다.
func NewStreamConsumer(client valkey.Client, logger *slog.Logger, cfg StreamConsumerConfig) *StreamConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamConsumer{client: client, logger: logger, cfg: cfg}
}

// Run: ctx 가 끝날 때까지 메시지를 읽어 handler 로 처리한다.
// 읽기 실패는 지수 백오프로 재시도하고, 그룹이 사라지면 다시 만든다.
// ClaimInterval 마다 오래된 pending 메시지를 다시 가져와 처리한다.
func (c *StreamConsumer) Run(ctx context.Context, handler Handler) error {
	cfg, err := c.normalizedConfig()
	if err != nil {
		return err
	}
	if err := c.ensureGroup(ctx, cfg); err != nil {
		return err
	}

	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	dispatch := func(messages []XMessage) bool {
		for _, msg := range messages {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return false
			}
			wg.Add(1)
			go func(m XMessage) {
				defer wg.Done()
				defer func() { <-sem }()
				c.handleMessage(ctx, cfg, m, handler)
			}(msg)
		}
		return true
	}

	var lastClaim time.Time
	backoff := cfg.BackoffInitial
	for {
		if ctx.Err() != nil {
			return nil
		}

		if cfg.ClaimMinIdle >= 0 && time.Since(lastClaim) >= cfg.ClaimInterval {
			lastClaim = time.Now()
			claimed, err := c.claimStale(ctx, cfg)
			if err != nil && ctx.Err() == nil && !valkeyx.IsNoGroup(err) {
				c.logger.Warn("xautoclaim_failed", "err", err, "stream", cfg.Stream, "group", cfg.Group)
			}
			if len(claimed) > 0 {
				c.logger.Info("pending_messages_reclaimed", "stream", cfg.Stream, "group", cfg.Group, "count", len(claimed))
			}
			if !dispatch(claimed) {
				return nil
			}
		}

		messages, err := c.readBatch(ctx, cfg)
		if err != nil {
			if valkeyx.IsNil(err) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
				backoff = cfg.BackoffInitial
				continue
			}
			if ctx.Err() != nil {
				return nil
			}

			if valkeyx.IsNoGroup(err) {
				c.logger.Info("consumer_group_missing_recreating", "stream", cfg.Stream, "group", cfg.Group)
				if recreateErr := c.ensureGroup(ctx, cfg); recreateErr == nil {
					backoff = cfg.BackoffInitial
					continue
				}
			}

			c.logger.Warn("xreadgroup_failed", "err", err, "stream", cfg.Stream, "group", cfg.Group, "backoff", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = min(backoff*2, cfg.BackoffMax)
			continue
		}
		backoff = cfg.BackoffInitial

		if !dispatch(messages) {
			return nil
		}
	}
}

// Poll: 메시지 배치 하나를 읽어 순서대로 처리하고 처리한 개수를 반환한다. 블로킹 타임아웃이면 0.
// ClaimMinIdle 이 지난 pending 메시지가 있으면 새 메시지보다 먼저 그것을 처리한다.
func (c *StreamConsumer) Poll(ctx context.Context, handler Handler) (int, error) {
	cfg, err := c.normalizedConfig()
	if err != nil {
		return 0, err
	}
	if err := c.ensureGroup(ctx, cfg); err != nil {
		return 0, err
	}

	if cfg.ClaimMinIdle >= 0 {
		claimed, err := c.claimStale(ctx, cfg)
		if err != nil {
			return 0, err
		}
		if len(claimed) > 0 {
			for _, msg := range claimed {
				c.handleMessage(ctx, cfg, msg, handler)
			}
			return len(claimed), nil
		}
	}

	messages, err := c.readBatch(ctx, cfg)
	if err != nil {
		if valkeyx.IsNil(err) {
			return 0, nil
		}
		return 0, err
	}
	for _, msg := range messages {
		c.handleMessage(ctx, cfg, msg, handler)
	}
	return len(messages), nil
}

func (c *StreamConsumer) readBatch(ctx context.Context, cfg StreamConsumerConfig) ([]XMessage, error) {
	cmd := c.client.B().Xreadgroup().
		Group(cfg.Group, cfg.Name).
		Count(cfg.BatchSize).
		Block(cfg.Block.Milliseconds()).
		Streams().Key(cfg.Stream).Id(">").
		Build()

	result, err := c.client.Do(ctx, cmd).AsXRead()
	if err != nil {
		return nil, cerrors.QueueError{Operation: "xreadgroup", Stream: cfg.Stream, Err: err}
	}

	var messages []XMessage
	for _, entry := range result[cfg.Stream] {
		messages = append(messages, XMessage{ID: entry.ID, Values: entry.FieldValues})
	}
	return messages, nil
}

// claimStale: ClaimMinIdle 이상 ACK 되지 않은 pending 메시지를 이 컨슈머로 가져온다.
func (c *StreamConsumer) claimStale(ctx context.Context, cfg StreamConsumerConfig) ([]XMessage, error) {
	cmd := c.client.B().Xautoclaim().
		Key(cfg.Stream).
		Group(cfg.Group).
		Consumer(cfg.Name).
		MinIdleTime(strconv.FormatInt(cfg.ClaimMinIdle.Milliseconds(), 10)).
		Start("0-0").
		Count(cfg.BatchSize).
		Build()

	arr, err := c.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, cerrors.QueueError{Operation: "xautoclaim", Stream: cfg.Stream, Err: err}
	}
	if len(arr) < 2 {
		return nil, cerrors.QueueError{
			Operation: "xautoclaim",
			Stream:    cfg.Stream,
			Err:       fmt.Errorf("unexpected reply length %d", len(arr)),
		}
	}

	entries, err := arr[1].AsXRange()
	if err != nil {
		return nil, cerrors.QueueError{Operation: "xautoclaim", Stream: cfg.Stream, Err: err}
	}
	messages := make([]XMessage, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, XMessage{ID: entry.ID, Values: entry.FieldValues})
	}
	return messages, nil
}

func (c *StreamConsumer) handleMessage(ctx context.Context, cfg StreamConsumerConfig, msg XMessage, handler Handler) {
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Values))
	spanCtx, span := consumerTracer.Start(parentCtx, "Valkey.ProcessMessage",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "valkey"),
			attribute.String("messaging.destination", cfg.Stream),
			attribute.String("messaging.message_id", msg.ID),
			attribute.String("messaging.consumer_group", cfg.Group),
		),
	)
	defer span.End()

	if err := handler(spanCtx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.ErrorContext(spanCtx, "message_handler_failed", "err", err, "stream", cfg.Stream, "id", msg.ID)
		if !cfg.AckOnError {
			return
		}
	}

	ackCmd := c.client.B().Xack().Key(cfg.Stream).Group(cfg.Group).Id(msg.ID).Build()
	if err := c.client.Do(spanCtx, ackCmd).Error(); err != nil {
		c.logger.WarnContext(spanCtx, "xack_failed", "err", err, "stream", cfg.Stream, "id", msg.ID)
	}
}

func (c *StreamConsumer) ensureGroup(ctx context.Context, cfg StreamConsumerConfig) error {
	cmd := c.client.B().XgroupCreate().Key(cfg.Stream).Group(cfg.Group).Id(cfg.GroupStartFrom).Mkstream().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil && !valkeyx.IsBusyGroup(err) {
		return cerrors.QueueError{
			Operation: "xgroup_create",
			Stream:    cfg.Stream,
			Err:       fmt.Errorf("group=%s: %w", cfg.Group, err),
		}
	}
	return nil
}

func (c *StreamConsumer) normalizedConfig() (StreamConsumerConfig, error) {
	cfg := c.cfg
	cfg.Stream = strings.TrimSpace(cfg.Stream)
	cfg.Group = strings.TrimSpace(cfg.Group)
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Stream == "" || cfg.Group == "" || cfg.Name == "" {
		return StreamConsumerConfig{}, errors.New("stream/group/name must be set")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Block <= 0 {
		cfg.Block = 5 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if strings.TrimSpace(cfg.GroupStartFrom) == "" {
		cfg.GroupStartFrom = "0"
	}
	if cfg.ClaimMinIdle == 0 {
		cfg.ClaimMinIdle = time.Minute
	}
	if cfg.ClaimInterval <= 0 {
		cfg.ClaimInterval = 30 * time.Second
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = time.Second
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 30 * time.Second
	}
	return cfg, nil
}

// sleepWithContext: 대기 완료 시 true, ctx 취소 시 false.
func sleepWithContext(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
