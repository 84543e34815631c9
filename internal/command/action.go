package command

import (
	"strings"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

// ActionPrefix: 내장 페이로드 액션과 충돌하는 명령어에 붙이는 접두사
const ActionPrefix = "on_"

// ActionForCommand: 명령어 이름을 액션 이름으로 변환한다.
// 소문자로 바꾼 뒤 내장 페이로드 타입 이름과 같거나 숫자로 시작하면 "on_" 을 붙인다.
// 어떤 명령어도 내장 페이로드 핸들러를 호출할 수 없다.
func ActionForCommand(name string) string {
	action := strings.ToLower(name)
	if update.IsReserved(action) || !isIdentifier(action) {
		return ActionPrefix + action
	}
	return action
}

// isIdentifier: [a-z_][a-z0-9_]* 형태인지 확인한다.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c >= '0' && c <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}
