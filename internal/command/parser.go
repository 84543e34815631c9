// Package command: 자유 텍스트에서 "/name args..." 형태의 명령어를 추출하고 액션 이름으로 변환한다.
package command

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// 명령어 파싱 상수
const (
	// Prefix: 명령어 시작 문자
	Prefix = '/'
	// MentionDelimiter: 명령어 이름 뒤에 붙는 봇 멘션 구분자
	MentionDelimiter = '@'
	// MaxNameLength: '/' 뒤 명령어 이름의 최대 길이. 초과 시 잘라내지 않고 전체를 거부한다.
	MaxNameLength = 31
)

// Command: 파싱된 명령어 호출
type Command struct {
	Name string
	Args []string
}

type mentionMode int

const (
	mentionNone mentionMode = iota
	mentionAny
	mentionBot
)

// Mention: 멘션 검사 기준. 봇 아이디(username), 모든 멘션 허용, 또는 미설정 중 하나다.
type Mention struct {
	mode     mentionMode
	username string
}

// NoMention: 봇 아이디가 설정되지 않은 상태. 멘션이 붙은 명령어는 다른 봇 대상으로 간주한다.
func NoMention() Mention {
	return Mention{mode: mentionNone}
}

// AnyMention: 어떤 멘션이든 허용한다.
func AnyMention() Mention {
	return Mention{mode: mentionAny}
}

// BotMention: username 과 대소문자까지 같은 멘션만 허용한다.
// 빈 username 은 NoMention 과 같다.
func BotMention(username string) Mention {
	if username == "" {
		return NoMention()
	}
	return Mention{mode: mentionBot, username: username}
}

// Username: BotMention 으로 만든 경우의 봇 아이디
func (m Mention) Username() string {
	return m.username
}

func (m Mention) accepts(mention string) bool {
	switch m.mode {
	case mentionAny:
		return true
	case mentionBot:
		return mention == m.username
	default:
		return false
	}
}

// Parse: text 가 명령어면 (Command, true), 아니면 (Command{}, false) 를 반환한다.
// 거부는 에러가 아니다.
func Parse(text string, m Mention) (Command, bool) {
	if len(text) == 0 || text[0] != Prefix {
		return Command{}, false
	}

	rest := text[1:]
	nameEnd := 0
	for nameEnd < len(rest) && isNameByte(rest[nameEnd]) {
		nameEnd++
	}
	if nameEnd == 0 || nameEnd > MaxNameLength {
		return Command{}, false
	}
	name := rest[:nameEnd]
	rest = rest[nameEnd:]

	if rest != "" && rest[0] == MentionDelimiter {
		mentionEnd := strings.IndexFunc(rest[1:], unicode.IsSpace)
		var mention string
		if mentionEnd < 0 {
			mention, rest = rest[1:], ""
		} else {
			mention, rest = rest[1:1+mentionEnd], rest[1+mentionEnd:]
		}
		if mention == "" || !m.accepts(mention) {
			return Command{}, false
		}
	}

	// 이름(또는 멘션) 직후는 공백이거나 문자열 끝이어야 한다. (/te-xt 거부)
	if r, _ := utf8.DecodeRuneInString(rest); rest != "" && !unicode.IsSpace(r) {
		return Command{}, false
	}

	args := strings.Fields(rest)
	if args == nil {
		args = []string{}
	}
	return Command{Name: name, Args: args}, true
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
