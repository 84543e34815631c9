// Package action: 액션 레지스트리와 before 훅 체인을 실행한다.
// 훅은 등록 순서대로 실행되고, Halt 를 반환하면 액션 본문은 실행되지 않는다.
package action

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Visibility: 외부에서 호출 가능한 액션인지 여부
type Visibility int

// Visibility 상수 목록.
const (
	Public Visibility = iota
	Protected
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "protected"
}

// Handler: 액션 본문. target 은 업데이트별 컨트롤러다.
type Handler[T any] func(ctx context.Context, target T, args []any) (any, error)

// Hook: before 훅. action 은 실행 예정인 액션 이름이다.
type Hook[T any] func(ctx context.Context, target T, action string) (Result, error)

// MissingHandler: 호출할 수 없는 액션 대신 실행되는 폴백
type MissingHandler[T any] func(ctx context.Context, target T, action string, args []any) (any, error)

// HookFilter: 훅이 적용될 액션을 제한한다.
type HookFilter func(*hookScope)

// Only: 지정한 액션에만 훅을 적용한다.
func Only(actions ...string) HookFilter {
	return func(s *hookScope) {
		s.only = append(s.only, actions...)
	}
}

// Except: 지정한 액션을 제외하고 훅을 적용한다.
func Except(actions ...string) HookFilter {
	return func(s *hookScope) {
		s.except = append(s.except, actions...)
	}
}

type hookScope struct {
	only   []string
	except []string
}

func (s hookScope) applies(action string) bool {
	if len(s.only) > 0 && !slices.Contains(s.only, action) {
		return false
	}
	return !slices.Contains(s.except, action)
}

type hookEntry[T any] struct {
	name  string
	scope hookScope
	hook  Hook[T]
}

type actionEntry[T any] struct {
	handler    Handler[T]
	visibility Visibility
}

// Chain: 액션 이름 → 핸들러/가시성 레지스트리와 before 훅 목록.
// 설정 단계에서 채우고, 이후에는 읽기 전용으로 여러 요청이 동시에 사용한다.
type Chain[T any] struct {
	actions map[string]actionEntry[T]
	hooks   []hookEntry[T]

	missing           MissingHandler[T]
	missingVisibility Visibility

	logger *slog.Logger
}

// NewChain: 빈 체인을 생성한다. logger 가 nil 이면 slog.Default 를 사용한다.
func NewChain[T any](logger *slog.Logger) *Chain[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain[T]{
		actions: make(map[string]actionEntry[T]),
		logger:  logger,
	}
}

// Define: 외부 호출 가능한(public) 액션을 등록한다.
func (c *Chain[T]) Define(name string, handler Handler[T]) *Chain[T] {
	return c.define(name, handler, Public)
}

// DefineProtected: 레지스트리에는 있지만 디스패치로는 호출할 수 없는 액션을 등록한다.
func (c *Chain[T]) DefineProtected(name string, handler Handler[T]) *Chain[T] {
	return c.define(name, handler, Protected)
}

func (c *Chain[T]) define(name string, handler Handler[T], visibility Visibility) *Chain[T] {
	if name == "" || handler == nil {
		panic(fmt.Sprintf("action: invalid definition name=%q", name))
	}
	c.actions[name] = actionEntry[T]{handler: handler, visibility: visibility}
	return c
}

// Before: before 훅을 등록한다. 등록 순서가 실행 순서다.
func (c *Chain[T]) Before(name string, hook Hook[T], filters ...HookFilter) *Chain[T] {
	if hook == nil {
		panic(fmt.Sprintf("action: nil hook name=%q", name))
	}
	entry := hookEntry[T]{name: name, hook: hook}
	for _, f := range filters {
		f(&entry.scope)
	}
	c.hooks = append(c.hooks, entry)
	return c
}

// ActionMissing: 호출할 수 없는 액션의 폴백을 등록한다. 폴백 자체가 public 일 때만 실행된다.
func (c *Chain[T]) ActionMissing(handler MissingHandler[T], visibility Visibility) *Chain[T] {
	c.missing = handler
	c.missingVisibility = visibility
	return c
}

// Visibility: 등록된 액션의 가시성. 없으면 ok=false.
func (c *Chain[T]) Visibility(name string) (Visibility, bool) {
	entry, ok := c.actions[name]
	if !ok {
		return Protected, false
	}
	return entry.visibility, true
}

// IsCallable: 디스패치로 직접 호출할 수 있는 액션인지 확인한다.
func (c *Chain[T]) IsCallable(name string) bool {
	v, ok := c.Visibility(name)
	return ok && v == Public
}
