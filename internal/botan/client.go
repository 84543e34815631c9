// Package botan: Botan 분석 API 로 이벤트를 전송하는 클라이언트와 요청 데코레이터를 제공한다.
// 요청 경로는 Requester 체인으로 구성된다. (HTTP, Debug 로깅, Async 스트림 큐, 테스트용 Stub)
package botan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
)

// TrackURI: 이벤트 추적 엔드포인트
const TrackURI = "https://api.potato.im/track"

// Request: Botan API 요청 한 건. Async 큐를 거쳐도 그대로 재현될 수 있도록 직렬화 가능한 값만 담는다.
type Request struct {
	Method string
	URI    string
	Query  url.Values
	Body   []byte
}

// Requester: Request 를 실행하고 응답 JSON 을 반환한다.
type Requester interface {
	Do(ctx context.Context, req Request) (map[string]any, error)
}

// Client: 봇 한 개의 Botan 토큰으로 이벤트를 추적한다.
type Client struct {
	id        string
	token     string
	trackURI  string
	requester Requester
}

// Option: Client 옵션
type Option func(*Client)

// WithTrackURI: 추적 엔드포인트를 바꾼다. (테스트, 프록시)
func WithTrackURI(uri string) Option {
	return func(c *Client) {
		if uri != "" {
			c.trackURI = uri
		}
	}
}

// NewClient: Client 를 생성한다. id 는 봇 아이디다.
func NewClient(id, token string, requester Requester, opts ...Option) *Client {
	c := &Client{id: id, token: token, trackURI: TrackURI, requester: requester}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID: 연결된 봇 아이디
func (c *Client) ID() string { return c.id }

// Track: event 를 uid 사용자로 기록한다. payload 는 JSON 본문으로 전송된다. (nil 이면 {})
func (c *Client) Track(ctx context.Context, event string, uid any, payload any) (map[string]any, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal track payload event=%s: %w", event, err)
	}

	query := url.Values{}
	query.Set("name", event)
	if uid != nil {
		query.Set("uid", fmt.Sprint(uid))
	}
	return c.Request(ctx, http.MethodPost, c.trackURI, query, body)
}

// Request: 토큰을 붙여 임의 요청을 보낸다.
func (c *Client) Request(ctx context.Context, method, uri string, query url.Values, body []byte) (map[string]any, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("token", c.token)

	res, err := c.requester.Do(ctx, Request{Method: method, URI: uri, Query: q, Body: body})
	if err != nil {
		return nil, fmt.Errorf("botan request failed uri=%s: %w", uri, err)
	}
	return res, nil
}
