// Package assets: 바이너리에 포함되는 정적 리소스
package assets

import _ "embed" // 에셋 임베드용

// BotMessagesYAML 는 기본 봇 응답 문구 YAML이다.
//
//go:embed messages/bot-messages.yml
var BotMessagesYAML string
