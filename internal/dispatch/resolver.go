// Package dispatch: 분류된 업데이트로부터 실행할 액션과 인자를 결정하고 훅 체인으로 넘긴다.
package dispatch

import (
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/command"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

// Resolution: ActionForPayload 결과
type Resolution struct {
	IsCommand bool
	// Action: 명령어면 원본 명령어 이름(대소문자 유지), 아니면 페이로드 타입 이름
	Action string
	Args   []any
}

// ActionForPayload: 페이로드 타입과 값으로 액션 이름과 위치 인자를 결정한다.
// 없는 필드는 nil 인자가 된다. 알 수 없는 타입은 unsupported_payload_type 으로 처리한다.
func ActionForPayload(t update.PayloadType, payload any, m command.Mention) Resolution {
	switch t {
	case update.TypeMessage, update.TypeChannelPost:
		if text, ok := update.FieldValue(payload, "text").(string); ok {
			if cmd, isCommand := command.Parse(text, m); isCommand {
				args := make([]any, len(cmd.Args))
				for i, a := range cmd.Args {
					args[i] = a
				}
				return Resolution{IsCommand: true, Action: cmd.Name, Args: args}
			}
		}
		return passthrough(t, payload)
	case update.TypeInlineQuery:
		return Resolution{Action: t.String(), Args: fields(payload, "query", "offset")}
	case update.TypeChosenInlineResult:
		return Resolution{Action: t.String(), Args: fields(payload, "result_id", "query")}
	case update.TypeCallbackQuery:
		return Resolution{Action: t.String(), Args: fields(payload, "data")}
	default:
		if !update.IsReserved(t.String()) {
			return Resolution{Action: update.UnsupportedAction, Args: []any{}}
		}
		return passthrough(t, payload)
	}
}

// passthrough: 타입 이름을 액션으로, 페이로드 전체를 단일 인자로 넘긴다.
func passthrough(t update.PayloadType, payload any) Resolution {
	return Resolution{Action: t.String(), Args: []any{payload}}
}

func fields(payload any, keys ...string) []any {
	out := make([]any, len(keys))
	for i, key := range keys {
		out[i] = update.FieldValue(payload, key)
	}
	return out
}
