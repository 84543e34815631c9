// Package httpclient: 외부 API(분석 서버 등) 호출용 http.Client. 요청마다 OTel span 이 기록된다.
package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
)

// DefaultUserAgent: Config.UserAgent 가 비어 있을 때 보내는 값
const DefaultUserAgent = "potato-bot"

// Config: 클라이언트 설정
type Config struct {
	// Name: span 이름 접두사 (예: "botan" → "botan POST /track")
	Name string
	// UserAgent: 요청에 User-Agent 가 없을 때 붙인다.
	UserAgent string

	Timeout        time.Duration
	ConnectTimeout time.Duration
	// HTTP2Enabled: 평문 HTTP/2(prior knowledge) 로 연결한다. 내부 프록시 전용.
	HTTP2Enabled bool
}

// New: User-Agent 를 붙이고 otelhttp 로 계측된 http.Client 를 생성한다.
func New(cfg Config) *http.Client {
	name := cfg.Name
	if name == "" {
		name = "HTTP"
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: otelhttp.NewTransport(
			userAgentTransport{next: baseTransport(cfg), userAgent: userAgent},
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return name + " " + r.Method + " " + r.URL.Path
			}),
		),
	}
}

func baseTransport(cfg Config) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	if cfg.HTTP2Enabled {
		return &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialer.DialContext(ctx, network, addr)
			},
		}
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

type userAgentTransport struct {
	next      http.RoundTripper
	userAgent string
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req) //nolint:wrapcheck // http.RoundTripper passthrough
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(clone) //nolint:wrapcheck // http.RoundTripper passthrough
}
