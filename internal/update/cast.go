package update

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// CastFunc: (타입, 원본 페이로드) → 페이로드 값. 분류 직후, 액션 결정 전에 호출된다.
type CastFunc func(t PayloadType, raw any) any

// IdentityCast: 원본 페이로드를 그대로 반환한다.
func IdentityCast(_ PayloadType, raw any) any {
	return raw
}

// TypedCast: 알려진 페이로드를 타입 구조체로 변환한다.
// 변환 대상이 아니거나 디코딩에 실패하면 원본을 그대로 반환한다.
func TypedCast(t PayloadType, raw any) any {
	src, ok := raw.(map[string]any)
	if !ok {
		if u, isUpdate := raw.(Update); isUpdate {
			src = u
		} else {
			return raw
		}
	}

	switch t {
	case TypeMessage, TypeEditedMessage, TypeChannelPost, TypeEditedChannelPost:
		var out Message
		if err := decodeInto(src, &out); err != nil {
			return raw
		}
		out.Raw = src
		return &out
	case TypeInlineQuery:
		var out InlineQuery
		if err := decodeInto(src, &out); err != nil {
			return raw
		}
		out.Raw = src
		return &out
	case TypeChosenInlineResult:
		var out ChosenInlineResult
		if err := decodeInto(src, &out); err != nil {
			return raw
		}
		out.Raw = src
		return &out
	case TypeCallbackQuery:
		var out CallbackQuery
		if err := decodeInto(src, &out); err != nil {
			return raw
		}
		out.Raw = src
		return &out
	default:
		return raw
	}
}

func decodeInto(input map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
