package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/action"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/botan"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/dispatch"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

// 웹훅 응답으로 돌려주는 봇 API 메서드
const (
	methodSendMessage         = "sendMessage"
	methodAnswerCallbackQuery = "answerCallbackQuery"
)

// defaultBot: 기본 봇 액션 모음
type defaultBot struct {
	msgs   *messageprovider.Provider
	logger *slog.Logger
}

// NewDefaultChain: 기본 봇 체인을 만든다. tracker 가 비어 있지 않으면 모든 액션을 추적한다.
func NewDefaultChain(msgs *messageprovider.Provider, tracker *botan.Registry, logger *slog.Logger) *dispatch.Chain {
	if logger == nil {
		logger = slog.Default()
	}
	b := &defaultBot{msgs: msgs, logger: logger}

	chain := dispatch.NewChain(logger)
	if tracker.Len() > 0 {
		chain.Before("botan_track", botan.TrackActionHook(tracker, logger), action.Except(update.UnsupportedAction))
	}

	return chain.
		Define("start", b.start).
		Define("help", b.help).
		Define("echo", b.echo).
		Define(update.TypeMessage.String(), b.ignore).
		Define(update.TypeCallbackQuery.String(), b.callbackQuery).
		Define(update.UnsupportedAction, b.unsupported).
		ActionMissing(b.missing, action.Public)
}

func sendMessage(chatID any, text string) map[string]any {
	return map[string]any{
		"method":  methodSendMessage,
		"chat_id": chatID,
		"text":    text,
	}
}

func chatID(c *dispatch.Controller) any {
	return update.FieldValue(c.Chat(), "id")
}

func (b *defaultBot) reply(c *dispatch.Controller, text string) (any, error) {
	id := chatID(c)
	if id == nil {
		return nil, nil
	}
	return sendMessage(id, text), nil
}

func (b *defaultBot) start(_ context.Context, c *dispatch.Controller, _ []any) (any, error) {
	return b.reply(c, b.msgs.Get("start"))
}

func (b *defaultBot) help(_ context.Context, c *dispatch.Controller, _ []any) (any, error) {
	return b.reply(c, b.msgs.Get("help"))
}

func (b *defaultBot) echo(_ context.Context, c *dispatch.Controller, args []any) (any, error) {
	if len(args) == 0 {
		return b.reply(c, b.msgs.Get("echo.empty"))
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return b.reply(c, strings.Join(parts, " "))
}

// ignore: 명령어가 아닌 일반 메시지는 응답하지 않는다.
func (b *defaultBot) ignore(context.Context, *dispatch.Controller, []any) (any, error) {
	return nil, nil
}

func (b *defaultBot) callbackQuery(_ context.Context, c *dispatch.Controller, args []any) (any, error) {
	var data any
	if len(args) > 0 {
		data = args[0]
	}
	id := update.FieldValue(c.Payload(), "id")
	if id == nil {
		return nil, nil
	}
	return map[string]any{
		"method":            methodAnswerCallbackQuery,
		"callback_query_id": id,
		"text":              b.msgs.Get("callback.answered", messageprovider.P("data", data)),
	}, nil
}

func (b *defaultBot) unsupported(ctx context.Context, c *dispatch.Controller, _ []any) (any, error) {
	b.logger.DebugContext(ctx, "unsupported_update", slog.Any("keys", updateKeys(c.Update())))
	return nil, nil
}

// missing: 정의되지 않은 명령어에는 사용자가 입력한 이름으로 안내 문구를, 그 외 업데이트는 무시한다.
// name 은 변환된 액션 이름("on_message" 등)이라 안내 문구에 쓰지 않는다.
func (b *defaultBot) missing(_ context.Context, c *dispatch.Controller, _ string, _ []any) (any, error) {
	typed, ok := c.Command()
	if !ok {
		return nil, nil
	}
	return b.reply(c, b.msgs.Get("unknown_command", messageprovider.P("command", typed)))
}

func updateKeys(u update.Update) []string {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, k)
	}
	return keys
}
