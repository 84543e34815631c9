package botan

import (
	"context"
	"log/slog"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/action"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/dispatch"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

// Registry: 봇 아이디 → Client. 생성 이후 읽기 전용이다.
type Registry struct {
	clients map[string]*Client
}

// NewRegistry: 클라이언트 목록으로 레지스트리를 생성한다.
func NewRegistry(clients ...*Client) *Registry {
	r := &Registry{clients: make(map[string]*Client, len(clients))}
	for _, c := range clients {
		if c != nil {
			r.clients[c.ID()] = c
		}
	}
	return r
}

// ByID: 봇 아이디로 클라이언트를 조회한다.
func (r *Registry) ByID(id string) (*Client, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.clients[id]
	return c, ok
}

// Len: 등록된 클라이언트 수
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.clients)
}

// TrackActionHook: 실행 예정인 액션을 이벤트로 기록하는 before 훅.
// 추적 실패는 로깅만 하고 체인은 항상 계속된다.
func TrackActionHook(registry *Registry, logger *slog.Logger) action.Hook[*dispatch.Controller] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, c *dispatch.Controller, name string) (action.Result, error) {
		b := c.Bot()
		if b == nil {
			return action.Continue(), nil
		}
		client, ok := registry.ByID(b.ID)
		if !ok {
			return action.Continue(), nil
		}

		uid := update.FieldValue(c.From(), "id")
		payload := map[string]any{"payload_type": c.PayloadType().String()}
		if chat := update.FieldValue(c.Chat(), "id"); chat != nil {
			payload["chat_id"] = chat
		}

		if _, err := client.Track(ctx, name, uid, payload); err != nil {
			logger.WarnContext(ctx, "botan_track_failed", slog.String("action", name), slog.Any("err", err))
		}
		return action.Continue(), nil
	}
}
