package dispatch

import (
	"context"
	"log/slog"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/action"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/command"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

// Chain: 컨트롤러를 대상으로 하는 액션/훅 체인
type Chain = action.Chain[*Controller]

// NewChain: 컨트롤러용 빈 체인을 생성한다.
func NewChain(logger *slog.Logger) *Chain {
	return action.NewChain[*Controller](logger)
}

// Options: 컨트롤러 생성 옵션
type Options struct {
	// Mention: 명령어 멘션 검사 기준. 비어 있으면 봇 아이디(BotMention)를 사용한다.
	Mention command.Mention
	// Cast: 분류 직후 페이로드 변환 함수. nil 이면 IdentityCast.
	Cast update.CastFunc
}

// Controller: 업데이트 한 건을 처리하는 동안의 상태.
// 업데이트마다 새로 생성하며 여러 고루틴에서 공유하지 않는다.
type Controller struct {
	bot         *bot.Bot
	update      update.Update
	payloadType update.PayloadType
	payload     any
	mention     command.Mention

	// update 없이 생성된 경우의 발신자/대화방
	from any
	chat any
}

// NewController: 업데이트를 분류하고 페이로드를 변환해 컨트롤러를 생성한다.
func NewController(b *bot.Bot, u update.Update, opts Options) *Controller {
	cast := opts.Cast
	if cast == nil {
		cast = update.IdentityCast
	}

	c := &Controller{bot: b, update: u, mention: resolveMention(b, opts.Mention)}
	if u == nil {
		return c
	}

	t, raw := update.Classify(u)
	c.payloadType = t
	if t.IsSupported() {
		c.payload = cast(t, raw)
	}
	return c
}

// NewControllerWithContext: 업데이트 없이 발신자/대화방만으로 컨트롤러를 생성한다.
// 예약 작업 등 웹훅 밖에서 액션을 실행할 때 사용한다.
func NewControllerWithContext(b *bot.Bot, from, chat any) *Controller {
	return &Controller{
		bot:     b,
		mention: resolveMention(b, command.NoMention()),
		from:    from,
		chat:    chat,
	}
}

func resolveMention(b *bot.Bot, m command.Mention) command.Mention {
	if m != command.NoMention() {
		return m
	}
	if b == nil {
		return command.NoMention()
	}
	return command.BotMention(b.Username)
}

// Bot: 업데이트를 받은 봇. 없으면 nil.
func (c *Controller) Bot() *bot.Bot { return c.bot }

// Update: 원본 업데이트. 컨텍스트로 생성했으면 nil.
func (c *Controller) Update() update.Update { return c.update }

// PayloadType: 분류된 페이로드 타입
func (c *Controller) PayloadType() update.PayloadType { return c.payloadType }

// Payload: 변환된 페이로드
func (c *Controller) Payload() any { return c.payload }

// Mention: 명령어 파싱에 사용하는 멘션 기준
func (c *Controller) Mention() command.Mention { return c.mention }

// BotUsername: 봇 아이디. 봇이 없으면 빈 문자열.
func (c *Controller) BotUsername() string {
	if c.bot == nil {
		return ""
	}
	return c.bot.Username
}

// From: payload.from. 컨텍스트로 생성했으면 전달받은 발신자.
func (c *Controller) From() any {
	if c.update == nil {
		return c.from
	}
	return update.FieldValue(c.payload, "from")
}

// Chat: payload.chat, 없으면 payload.message.chat.
// 컨텍스트로 생성했으면 전달받은 대화방.
func (c *Controller) Chat() any {
	if c.update == nil {
		return c.chat
	}
	if chat, ok := update.Field(c.payload, "chat"); ok {
		return chat
	}
	if message, ok := update.Field(c.payload, "message"); ok {
		return update.FieldValue(message, "chat")
	}
	return nil
}

// ActionForPayload: 컨트롤러 상태로 ActionForPayload 를 호출한다.
func (c *Controller) ActionForPayload() Resolution {
	return ActionForPayload(c.payloadType, c.payload, c.mention)
}

// Command: 업데이트가 명령어면 입력된 그대로의 명령어 이름과 true 를 반환한다.
func (c *Controller) Command() (string, bool) {
	r := c.ActionForPayload()
	if !r.IsCommand {
		return "", false
	}
	return r.Action, true
}

// Dispatch: 실행할 액션 이름과 인자를 반환한다. 명령어만 액션 이름 변환을 거친다.
func (c *Controller) Dispatch() (string, []any) {
	r := c.ActionForPayload()
	if r.IsCommand {
		return command.ActionForCommand(r.Action), r.Args
	}
	return r.Action, r.Args
}

// Process: chain 으로 action 을 실행한다.
func (c *Controller) Process(ctx context.Context, chain *Chain, name string, args ...any) (any, error) {
	return chain.Process(ctx, c, name, args...)
}

// Run: Dispatch 결과를 chain 으로 실행한다.
func (c *Controller) Run(ctx context.Context, chain *Chain) (action.Outcome, error) {
	name, args := c.Dispatch()
	return chain.Run(ctx, c, name, args...)
}
