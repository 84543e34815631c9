package dispatch

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/action"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/command"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

var testBot = &bot.Bot{ID: "main", Token: "token", Username: "bot"}

func assertResolution(t *testing.T, got Resolution, isCommand bool, action string, args []any) {
	t.Helper()
	if got.IsCommand != isCommand || got.Action != action {
		t.Fatalf("expected (%v, %q), got (%v, %q)", isCommand, action, got.IsCommand, got.Action)
	}
	if !reflect.DeepEqual(got.Args, args) {
		t.Fatalf("expected args %#v, got %#v", args, got.Args)
	}
}

func TestActionForPayload_InlineQuery(t *testing.T) {
	payload := map[string]any{"id": "1", "from": map[string]any{}, "location": "loc", "query": "q", "offset": "o"}
	got := ActionForPayload(update.TypeInlineQuery, payload, command.NoMention())
	assertResolution(t, got, false, "inline_query", []any{"q", "o"})
}

func TestActionForPayload_ChosenInlineResult(t *testing.T) {
	payload := map[string]any{"result_id": "r", "from": "f", "location": "l", "inline_message_id": "i", "query": "q"}
	got := ActionForPayload(update.TypeChosenInlineResult, payload, command.NoMention())
	assertResolution(t, got, false, "chosen_inline_result", []any{"r", "q"})
}

func TestActionForPayload_CallbackQuery(t *testing.T) {
	payload := map[string]any{"id": "1", "from": "f", "message": "m", "inline_message_id": "i", "data": "d"}
	got := ActionForPayload(update.TypeCallbackQuery, payload, command.NoMention())
	assertResolution(t, got, false, "callback_query", []any{"d"})
}

func TestActionForPayload_MissingFieldsAreNil(t *testing.T) {
	got := ActionForPayload(update.TypeInlineQuery, map[string]any{"query": "q"}, command.NoMention())
	assertResolution(t, got, false, "inline_query", []any{"q", nil})

	got = ActionForPayload(update.TypeCallbackQuery, nil, command.NoMention())
	assertResolution(t, got, false, "callback_query", []any{nil})
}

func TestActionForPayload_Unsupported(t *testing.T) {
	for _, pt := range []update.PayloadType{update.Unsupported, "_unsupported_"} {
		got := ActionForPayload(pt, map[string]any{"x": 1}, command.NoMention())
		assertResolution(t, got, false, "unsupported_payload_type", []any{})
	}
}

func TestActionForPayload_MessageTypes(t *testing.T) {
	bot := command.BotMention("bot")

	for _, pt := range []update.PayloadType{update.TypeMessage, update.TypeChannelPost} {
		t.Run(pt.String(), func(t *testing.T) {
			plain := map[string]any{"text": "test"}
			assertResolution(t, ActionForPayload(pt, plain, bot), false, pt.String(), []any{plain})

			for _, text := range []string{"/test arg 1 2", "/test@bot arg 1 2"} {
				payload := map[string]any{"text": text}
				assertResolution(t, ActionForPayload(pt, payload, bot), true, "test", []any{"arg", "1", "2"})
			}

			other := map[string]any{"text": "/test@other_bot arg 1 2"}
			assertResolution(t, ActionForPayload(pt, other, bot), false, pt.String(), []any{other})

			noText := map[string]any{"audio": map[string]any{"file_id": 123}}
			assertResolution(t, ActionForPayload(pt, noText, bot), false, pt.String(), []any{noText})

			assertResolution(t, ActionForPayload(pt, map[string]any{"text": "/start"}, bot), true, "start", []any{})
		})
	}
}

func TestActionForPayload_EditedNeverParses(t *testing.T) {
	for _, pt := range []update.PayloadType{update.TypeEditedMessage, update.TypeEditedChannelPost} {
		payload := map[string]any{"text": "/test arg"}
		assertResolution(t, ActionForPayload(pt, payload, command.AnyMention()), false, pt.String(), []any{payload})
	}
}

func TestActionForPayload_OtherTypesPassthrough(t *testing.T) {
	for _, pt := range []update.PayloadType{update.TypeShippingQuery, update.TypePreCheckoutQuery} {
		payload := map[string]any{"id": "1"}
		assertResolution(t, ActionForPayload(pt, payload, command.NoMention()), false, pt.String(), []any{payload})
	}
}

func TestActionForPayload_TypedPayload(t *testing.T) {
	raw := map[string]any{"message_id": 1, "text": "/Help me"}
	payload := update.TypedCast(update.TypeMessage, raw)
	if _, ok := payload.(*update.Message); !ok {
		t.Fatalf("expected typed message, got %T", payload)
	}
	assertResolution(t, ActionForPayload(update.TypeMessage, payload, command.NoMention()), true, "Help", []any{"me"})

	query := update.TypedCast(update.TypeInlineQuery, map[string]any{"id": "1", "query": "q", "offset": "10"})
	assertResolution(t, ActionForPayload(update.TypeInlineQuery, query, command.NoMention()), false, "inline_query", []any{"q", "10"})
}

func TestController_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		update     update.Update
		wantAction string
		wantArgs   []any
	}{
		{
			name:       "command",
			update:     update.Update{"message": map[string]any{"text": "/TeSt@bot a b"}},
			wantAction: "test",
			wantArgs:   []any{"a", "b"},
		},
		{
			name:       "reserved command",
			update:     update.Update{"message": map[string]any{"text": "/Message"}},
			wantAction: "on_message",
			wantArgs:   []any{},
		},
		{
			name:       "callback",
			update:     update.Update{"callback_query": map[string]any{"data": "d"}},
			wantAction: "callback_query",
			wantArgs:   []any{"d"},
		},
		{
			name:       "unsupported",
			update:     update.Update{"poll": map[string]any{}},
			wantAction: "unsupported_payload_type",
			wantArgs:   []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testBot, tt.update, Options{})
			gotAction, gotArgs := c.Dispatch()
			if gotAction != tt.wantAction || !reflect.DeepEqual(gotArgs, tt.wantArgs) {
				t.Fatalf("expected (%q, %#v), got (%q, %#v)", tt.wantAction, tt.wantArgs, gotAction, gotArgs)
			}
		})
	}
}

func TestController_DispatchPayloadTypeNameIsNotMapped(t *testing.T) {
	payload := map[string]any{"text": "hello"}
	c := NewController(testBot, update.Update{"message": payload}, Options{})
	name, args := c.Dispatch()
	if name != "message" || !reflect.DeepEqual(args, []any{payload}) {
		t.Fatalf("unexpected dispatch: %q %#v", name, args)
	}
}

func TestController_CommandKeepsTypedName(t *testing.T) {
	c := NewController(testBot, update.Update{"message": map[string]any{"text": "/Message now"}}, Options{})
	if name, _ := c.Dispatch(); name != "on_message" {
		t.Fatalf("expected mapped action, got %q", name)
	}
	if typed, ok := c.Command(); !ok || typed != "Message" {
		t.Fatalf("expected typed command name, got %q %v", typed, ok)
	}

	plain := NewController(testBot, update.Update{"message": map[string]any{"text": "hello"}}, Options{})
	if typed, ok := plain.Command(); ok || typed != "" {
		t.Fatalf("expected no command, got %q %v", typed, ok)
	}
}

func TestController_Mention(t *testing.T) {
	u := update.Update{"message": map[string]any{"text": "/test@other"}}

	if name, _ := NewController(testBot, u, Options{}).Dispatch(); name != "message" {
		t.Errorf("expected mention for other bot to be ignored, got %q", name)
	}
	if name, _ := NewController(testBot, u, Options{Mention: command.AnyMention()}).Dispatch(); name != "test" {
		t.Errorf("expected any mention to be accepted, got %q", name)
	}
	if name, _ := NewController(nil, u, Options{}).Dispatch(); name != "message" {
		t.Errorf("expected mention without bot identity to be ignored, got %q", name)
	}
}

func TestController_Accessors(t *testing.T) {
	from := map[string]any{"id": 1}
	chat := map[string]any{"id": 2}
	u := update.Update{"message": map[string]any{"from": from, "chat": chat}}

	c := NewController(testBot, u, Options{})
	if c.Bot() != testBot || !reflect.DeepEqual(c.Update(), u) {
		t.Fatalf("unexpected bot/update")
	}
	if c.PayloadType() != update.TypeMessage {
		t.Fatalf("unexpected payload type: %q", c.PayloadType())
	}
	if !reflect.DeepEqual(c.From(), from) || !reflect.DeepEqual(c.Chat(), chat) {
		t.Fatalf("unexpected from/chat: %v %v", c.From(), c.Chat())
	}
	if c.BotUsername() != "bot" {
		t.Fatalf("unexpected username: %q", c.BotUsername())
	}
	if NewController(nil, u, Options{}).BotUsername() != "" {
		t.Fatalf("expected empty username without bot")
	}
}

func TestController_Chat(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    any
	}{
		{name: "direct", payload: map[string]any{"chat": "test_value"}, want: "test_value"},
		{name: "nil payload", payload: nil, want: nil},
		{name: "no field", payload: map[string]any{"smth": "other"}, want: nil},
		{name: "message without chat", payload: map[string]any{"message": map[string]any{"text": "Hello bot!"}}, want: nil},
		{name: "message chat", payload: map[string]any{"message": map[string]any{"text": "hi", "chat": "test value"}}, want: "test value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(testBot, update.Update{"callback_query": tt.payload}, Options{})
			if got := c.Chat(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestController_ChatFromTypedCallbackMessage(t *testing.T) {
	u := update.Update{"callback_query": map[string]any{
		"id":      "1",
		"data":    "d",
		"message": map[string]any{"message_id": 5, "chat": map[string]any{"id": 77, "type": "private"}},
	}}
	c := NewController(testBot, u, Options{Cast: update.TypedCast})

	chat, ok := c.Chat().(*update.Chat)
	if !ok || chat.ID != 77 {
		t.Fatalf("expected typed chat 77, got %#v", c.Chat())
	}
}

func TestNewControllerWithContext(t *testing.T) {
	from := map[string]any{"id": "user_id"}
	chat := map[string]any{"id": "chat_id"}
	c := NewControllerWithContext(testBot, from, chat)

	if c.Update() != nil || c.Payload() != nil || c.PayloadType() != update.Unsupported {
		t.Fatalf("expected empty update state")
	}
	if !reflect.DeepEqual(c.From(), from) || !reflect.DeepEqual(c.Chat(), chat) {
		t.Fatalf("unexpected from/chat")
	}
}

func TestController_ProcessAndRun(t *testing.T) {
	chain := NewChain(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Define("action", func(_ context.Context, c *Controller, args []any) (any, error) {
			return []any{c.From(), c.Chat(), args}, nil
		}).
		Define("test", func(_ context.Context, _ *Controller, args []any) (any, error) {
			return args, nil
		})

	from := map[string]any{"id": "user_id"}
	chat := map[string]any{"id": "chat_id"}
	got, err := NewControllerWithContext(testBot, from, chat).Process(context.Background(), chain, "action", "arg1", "arg2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []any{from, chat, []any{"arg1", "arg2"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	c := NewController(testBot, update.Update{"message": map[string]any{"text": "/test x"}}, Options{})
	outcome, err := c.Run(context.Background(), chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.State != action.StateDone || !reflect.DeepEqual(outcome.Value, []any{"x"}) {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}
