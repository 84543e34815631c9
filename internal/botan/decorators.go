package botan

import (
	"context"
	"log/slog"
	"sync"
)

// DebugRequester: 요청과 결과를 debug 레벨로 남기고 next 로 전달한다.
type DebugRequester struct {
	next   Requester
	logger *slog.Logger
}

// NewDebugRequester: DebugRequester 를 생성한다.
func NewDebugRequester(next Requester, logger *slog.Logger) *DebugRequester {
	if logger == nil {
		logger = slog.Default()
	}
	return &DebugRequester{next: next, logger: logger}
}

// Do 는 Requester 구현이다.
func (d *DebugRequester) Do(ctx context.Context, req Request) (map[string]any, error) {
	d.logger.DebugContext(ctx, "botan_request",
		slog.String("method", req.Method),
		slog.String("uri", req.URI),
		slog.String("name", req.Query.Get("name")),
		slog.String("uid", req.Query.Get("uid")),
		slog.Int("body_bytes", len(req.Body)),
	)
	res, err := d.next.Do(ctx, req)
	if err != nil {
		d.logger.DebugContext(ctx, "botan_request_failed", slog.String("uri", req.URI), slog.Any("err", err))
		return nil, err
	}
	d.logger.DebugContext(ctx, "botan_response", slog.String("uri", req.URI), slog.Int("fields", len(res)))
	return res, nil
}

// StubRequester: 요청을 보내지 않고 기록만 한다. 스텁 모드와 테스트에서 사용한다.
type StubRequester struct {
	mu       sync.Mutex
	requests []Request
	// Response: 모든 요청에 돌려줄 응답
	Response map[string]any
}

// Do 는 Requester 구현이다.
func (s *StubRequester) Do(_ context.Context, req Request) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.Response, nil
}

// Requests: 지금까지 기록된 요청 복사본
func (s *StubRequester) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Reset: 기록을 비운다.
func (s *StubRequester) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}
