package action

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/logging"
)

// State: 한 번의 Process 호출 상태
// Pending → Hooking → (Halted | Invoking) → Done
type State int

// State 상수 목록.
const (
	StatePending State = iota
	StateHooking
	StateHalted
	StateInvoking
	StateDone
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateHooking:
		return "hooking"
	case StateHalted:
		return "halted"
	case StateInvoking:
		return "invoking"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome: Run 결과
type Outcome struct {
	State State
	Value any
	// Invoked: 실제로 실행된 핸들러. 액션 이름, "action_missing", 또는 빈 문자열(미실행)
	Invoked string
	// HaltedBy: 체인을 중단한 훅 이름
	HaltedBy string
}

// MissingName: Outcome.Invoked 에 기록되는 폴백 이름
const MissingName = "action_missing"

var tracer = otel.Tracer("potato-bot-go/action")

// Process: 훅 체인을 거쳐 액션을 실행하고 반환값만 돌려준다.
// 훅이 중단하면 Halt 값(기본 Halted), 호출할 수 없는 액션이면 (nil, nil).
func (c *Chain[T]) Process(ctx context.Context, target T, action string, args ...any) (any, error) {
	outcome, err := c.Run(ctx, target, action, args...)
	if err != nil {
		return nil, err
	}
	return outcome.Value, nil
}

// Run: Process 와 같지만 실행 상태를 함께 반환한다.
func (c *Chain[T]) Run(ctx context.Context, target T, action string, args ...any) (Outcome, error) {
	if c == nil {
		panic("action: nil chain")
	}

	ctx, span := tracer.Start(ctx, "Action.Process",
		trace.WithAttributes(attribute.String("bot.action", action)),
	)
	defer span.End()
	ctx = logging.WithAction(ctx, action)

	outcome := Outcome{State: StateHooking}
	for _, h := range c.hooks {
		if !h.scope.applies(action) {
			continue
		}
		res, err := h.hook(ctx, target, action)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return outcome, fmt.Errorf("before hook %s failed action=%s: %w", h.name, action, err)
		}
		if res.IsHalt() {
			outcome.State = StateHalted
			outcome.Value = res.Value()
			outcome.HaltedBy = h.name
			span.SetAttributes(attribute.String("bot.halted_by", h.name))
			c.logger.DebugContext(ctx, "hook_halted", slog.String("hook", h.name))
			return outcome, nil
		}
	}

	outcome.State = StateInvoking
	value, invoked, err := c.invoke(ctx, target, action, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return outcome, err
	}

	outcome.State = StateDone
	outcome.Value = value
	outcome.Invoked = invoked
	span.SetAttributes(attribute.String("bot.invoked", invoked))
	return outcome, nil
}

func (c *Chain[T]) invoke(ctx context.Context, target T, action string, args []any) (any, string, error) {
	if entry, ok := c.actions[action]; ok && entry.visibility == Public {
		value, err := entry.handler(ctx, target, args)
		if err != nil {
			return nil, action, fmt.Errorf("action %s failed: %w", action, err)
		}
		return value, action, nil
	}

	if c.missing != nil && c.missingVisibility == Public {
		value, err := c.missing(ctx, target, action, args)
		if err != nil {
			return nil, MissingName, fmt.Errorf("action_missing failed action=%s: %w", action, err)
		}
		return value, MissingName, nil
	}

	c.logger.DebugContext(ctx, "action_not_callable")
	return nil, "", nil
}
