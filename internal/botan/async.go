package botan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/mq"
)

// 스트림 메시지 필드
const (
	fieldMethod = "method"
	fieldURI    = "uri"
	fieldQuery  = "query"
	fieldBody   = "body"
)

// Publisher: 스트림 발행자 (mq.StreamPublisher)
type Publisher interface {
	Publish(ctx context.Context, values map[string]string) (string, error)
}

// AsyncRequester: 요청을 Valkey 스트림에 넣고 바로 반환한다. 실제 전송은 Worker 가 한다.
type AsyncRequester struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewAsyncRequester: AsyncRequester 를 생성한다.
func NewAsyncRequester(publisher Publisher, logger *slog.Logger) *AsyncRequester {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncRequester{publisher: publisher, logger: logger}
}

// Do: 요청을 큐에 넣는다. 응답은 항상 nil 이다.
func (a *AsyncRequester) Do(ctx context.Context, req Request) (map[string]any, error) {
	id, err := a.publisher.Publish(ctx, EncodeRequest(req))
	if err != nil {
		return nil, fmt.Errorf("enqueue botan request failed: %w", err)
	}
	a.logger.DebugContext(ctx, "botan_request_enqueued", slog.String("id", id), slog.String("uri", req.URI))
	return nil, nil
}

// EncodeRequest: 요청을 스트림 필드로 변환한다.
func EncodeRequest(req Request) map[string]string {
	return map[string]string{
		fieldMethod: req.Method,
		fieldURI:    req.URI,
		fieldQuery:  req.Query.Encode(),
		fieldBody:   string(req.Body),
	}
}

// DecodeRequest: 스트림 필드에서 요청을 복원한다.
func DecodeRequest(values map[string]string) (Request, error) {
	method, uri := values[fieldMethod], values[fieldURI]
	if method == "" || uri == "" {
		return Request{}, errors.New("botan message missing method or uri")
	}
	query, err := url.ParseQuery(values[fieldQuery])
	if err != nil {
		return Request{}, fmt.Errorf("parse botan query failed: %w", err)
	}

	var body []byte
	if raw, ok := values[fieldBody]; ok && raw != "" {
		body = []byte(raw)
	}
	return Request{Method: method, URI: uri, Query: query, Body: body}, nil
}

// Consumer: 스트림 소비자 (mq.StreamConsumer)
type Consumer interface {
	Run(ctx context.Context, handler mq.Handler) error
}

// Worker: 스트림의 요청을 next 로 재실행한다.
type Worker struct {
	consumer Consumer
	next     Requester
	logger   *slog.Logger
}

// NewWorker: Worker 를 생성한다.
func NewWorker(consumer Consumer, next Requester, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{consumer: consumer, next: next, logger: logger}
}

// Run: ctx 가 끝날 때까지 큐를 처리한다.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.consumer.Run(ctx, w.Handle); err != nil {
		return fmt.Errorf("botan worker failed: %w", err)
	}
	return nil
}

// Handle: 메시지 한 건을 처리한다. 잘못된 메시지와 4xx 응답은 다시 시도하지 않는다.
func (w *Worker) Handle(ctx context.Context, msg mq.XMessage) error {
	req, err := DecodeRequest(msg.Values)
	if err != nil {
		w.logger.WarnContext(ctx, "botan_message_invalid", slog.String("id", msg.ID), slog.Any("err", err))
		return nil
	}

	if _, err := w.next.Do(ctx, req); err != nil {
		if IsPermanent(err) {
			w.logger.WarnContext(ctx, "botan_request_rejected", slog.String("id", msg.ID), slog.Any("err", err))
			return nil
		}
		return err
	}
	return nil
}
