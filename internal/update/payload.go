// Package update: 웹훅으로 수신한 업데이트를 페이로드 타입별로 분류한다.
package update

// Update: 웹훅 한 건으로 전달된 원본 업데이트 (문자열 키, 임의 중첩 값)
type Update map[string]any

// PayloadType: 업데이트가 담고 있는 페이로드 종류
type PayloadType string

// PayloadType 상수 목록. 선언 순서가 분류 우선순위다.
const (
	TypeMessage            PayloadType = "message"
	TypeEditedMessage      PayloadType = "edited_message"
	TypeChannelPost        PayloadType = "channel_post"
	TypeEditedChannelPost  PayloadType = "edited_channel_post"
	TypeInlineQuery        PayloadType = "inline_query"
	TypeChosenInlineResult PayloadType = "chosen_inline_result"
	TypeCallbackQuery      PayloadType = "callback_query"
	TypeShippingQuery      PayloadType = "shipping_query"
	TypePreCheckoutQuery   PayloadType = "pre_checkout_query"

	// Unsupported: 알려진 키가 하나도 없는 업데이트
	Unsupported PayloadType = ""
)

// UnsupportedAction: 지원하지 않는 업데이트를 처리하는 액션 이름
const UnsupportedAction = "unsupported_payload_type"

// PayloadTypes: 분류 시 검사하는 고정 순서 목록
var PayloadTypes = [...]PayloadType{
	TypeMessage,
	TypeEditedMessage,
	TypeChannelPost,
	TypeEditedChannelPost,
	TypeInlineQuery,
	TypeChosenInlineResult,
	TypeCallbackQuery,
	TypeShippingQuery,
	TypePreCheckoutQuery,
}

var reserved = func() map[string]struct{} {
	set := make(map[string]struct{}, len(PayloadTypes))
	for _, t := range PayloadTypes {
		set[string(t)] = struct{}{}
	}
	return set
}()

func (t PayloadType) String() string {
	return string(t)
}

// IsSupported: Unsupported 가 아닌지 확인한다.
func (t PayloadType) IsSupported() bool {
	return t != Unsupported
}

// IsEdited: edited_* 계열인지 확인한다. 편집 이벤트는 명령어 파싱을 하지 않는다.
func (t PayloadType) IsEdited() bool {
	return t == TypeEditedMessage || t == TypeEditedChannelPost
}

// IsReserved: name 이 내장 페이로드 액션 이름과 같은지 확인한다. (소문자 기준)
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}
