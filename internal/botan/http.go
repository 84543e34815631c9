package botan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

const maxResponseBytes = 1 << 20

// HTTPRequester: Request 를 실제 HTTP 요청으로 실행한다.
type HTTPRequester struct {
	client *http.Client
}

// NewHTTPRequester: client 가 nil 이면 http.DefaultClient 를 사용한다.
func NewHTTPRequester(client *http.Client) *HTTPRequester {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRequester{client: client}
}

// Do: 상태 코드 < 300 이면 응답 JSON 을, 아니면 cerrors.TrackError 를 반환한다.
func (h *HTTPRequester) Do(ctx context.Context, req Request) (map[string]any, error) {
	target := req.URI
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode < http.StatusMultipleChoices {
		result := map[string]any{}
		if len(bytes.TrimSpace(raw)) == 0 {
			return result, nil
		}
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("decode response failed: %w", err)
		}
		return result, nil
	}

	var info string
	var payload map[string]any
	if json.Unmarshal(raw, &payload) == nil {
		if v, ok := payload["info"].(string); ok {
			info = v
		}
	}
	return nil, cerrors.TrackError{Status: resp.StatusCode, Reason: http.StatusText(resp.StatusCode), Info: info}
}

// IsPermanent: 재시도해도 결과가 같은 실패(4xx)인지 확인한다.
func IsPermanent(err error) bool {
	var trackErr cerrors.TrackError
	if !errors.As(err, &trackErr) {
		return false
	}
	return trackErr.Status >= 400 && trackErr.Status < 500
}
