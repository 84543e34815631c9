// Package bot: 웹훅을 받는 봇 계정 정보와 레지스트리를 제공한다.
package bot

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

// Bot: 봇 계정. Username 은 명령어 멘션 검사에 사용된다.
type Bot struct {
	ID       string `validate:"required,max=64"`
	Token    string `validate:"required"`
	Username string `validate:"omitempty,max=64,excludesall=@"`
}

// Registry: 봇 아이디 → 봇. 생성 이후에는 읽기 전용이다.
type Registry struct {
	bots      map[string]*Bot
	defaultID string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate: 봇 설정을 검증한다.
func (b Bot) Validate() error {
	if err := validate.Struct(b); err != nil {
		return fmt.Errorf("validate bot id=%s: %w", b.ID, err)
	}
	return nil
}

// NewRegistry: 봇 목록으로 레지스트리를 생성한다.
// defaultID 가 비어 있으면 첫 번째 봇을 기본 봇으로 사용한다.
func NewRegistry(bots []Bot, defaultID string) (*Registry, error) {
	if len(bots) == 0 {
		return nil, cerrors.ConfigError{Key: "BOTS", Err: fmt.Errorf("at least one bot is required")}
	}

	r := &Registry{bots: make(map[string]*Bot, len(bots))}
	for i := range bots {
		b := bots[i]
		if err := b.Validate(); err != nil {
			return nil, cerrors.ConfigError{Key: "BOTS", Err: err}
		}
		if _, exists := r.bots[b.ID]; exists {
			return nil, cerrors.ConfigError{Key: "BOTS", Err: fmt.Errorf("duplicate bot id=%s", b.ID)}
		}
		r.bots[b.ID] = &b
	}

	if defaultID == "" {
		defaultID = bots[0].ID
	}
	if _, ok := r.bots[defaultID]; !ok {
		return nil, cerrors.ConfigError{Key: "BOT_DEFAULT", Err: cerrors.BotNotFoundError{BotID: defaultID}}
	}
	r.defaultID = defaultID
	return r, nil
}

// ByID: 아이디로 봇을 조회한다.
func (r *Registry) ByID(id string) (*Bot, bool) {
	if r == nil {
		return nil, false
	}
	b, ok := r.bots[id]
	return b, ok
}

// Default: 기본 봇
func (r *Registry) Default() *Bot {
	if r == nil {
		return nil
	}
	return r.bots[r.defaultID]
}

// All: 아이디 순으로 정렬된 전체 봇 목록
func (r *Registry) All() []*Bot {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.bots))
	for id := range r.bots {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Bot, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.bots[id])
	}
	return out
}
