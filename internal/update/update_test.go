package update

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify_InlineQueryOnly(t *testing.T) {
	payload := map[string]any{"id": "1", "query": "q"}
	typ, got := Classify(Update{"inline_query": payload})
	if typ != TypeInlineQuery {
		t.Fatalf("expected inline_query, got %q", typ)
	}
	if got.(map[string]any)["query"] != "q" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestClassify_Unsupported(t *testing.T) {
	typ, payload := Classify(Update{"update_id": 1, "poll": map[string]any{}})
	if typ != Unsupported || typ.IsSupported() {
		t.Fatalf("expected unsupported, got %q", typ)
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %v", payload)
	}

	typ, _ = Classify(nil)
	if typ != Unsupported {
		t.Fatalf("expected unsupported for nil update, got %q", typ)
	}
}

func TestClassify_PresenceNotTruthiness(t *testing.T) {
	typ, payload := Classify(Update{"callback_query": nil})
	if typ != TypeCallbackQuery {
		t.Fatalf("expected callback_query, got %q", typ)
	}
	if payload != nil {
		t.Fatalf("expected nil payload, got %v", payload)
	}
}

func TestClassify_EarlierTypeWins(t *testing.T) {
	u := Update{
		"callback_query": map[string]any{"data": "x"},
		"edited_message": map[string]any{"text": "edited"},
		"channel_post":   map[string]any{"text": "post"},
	}
	typ, _ := Classify(u)
	if typ != TypeEditedMessage {
		t.Fatalf("expected edited_message, got %q", typ)
	}
}

func TestIsReserved(t *testing.T) {
	for _, pt := range PayloadTypes {
		if !IsReserved(string(pt)) {
			t.Errorf("expected %q to be reserved", pt)
		}
	}
	for _, name := range []string{"test", "Message", "on_message", "1test", ""} {
		if IsReserved(name) {
			t.Errorf("expected %q not to be reserved", name)
		}
	}
}

func TestField(t *testing.T) {
	if v, ok := Field(map[string]any{"a": 1}, "a"); !ok || v != 1 {
		t.Fatalf("unexpected map field: %v %v", v, ok)
	}
	if _, ok := Field(nil, "a"); ok {
		t.Fatalf("expected no field on nil payload")
	}
	if _, ok := Field("text", "a"); ok {
		t.Fatalf("expected no field on scalar payload")
	}

	var msg *Message
	if _, ok := Field(msg, "text"); ok {
		t.Fatalf("expected no field on nil typed payload")
	}
}

func TestTypedCast_Message(t *testing.T) {
	raw := map[string]any{
		"message_id": "22",
		"text":       "/start",
		"chat":       map[string]any{"id": 456, "type": "private"},
		"from":       map[string]any{"id": 123, "first_name": "Kim"},
		"audio":      map[string]any{"file_id": 1},
	}

	got := TypedCast(TypeMessage, raw)
	msg, ok := got.(*Message)
	if !ok {
		t.Fatalf("expected *Message, got %T", got)
	}
	if msg.MessageID != 22 || msg.Chat == nil || msg.Chat.ID != 456 || msg.From == nil || msg.From.ID != 123 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if v, _ := Field(msg, "text"); v != "/start" {
		t.Fatalf("expected text field, got %v", v)
	}
	if _, ok := Field(msg, "audio"); !ok {
		t.Fatalf("expected raw field fallback for audio")
	}
}

func TestTypedCast_Types(t *testing.T) {
	tests := []struct {
		typ  PayloadType
		want string
	}{
		{TypeEditedChannelPost, "*update.Message"},
		{TypeInlineQuery, "*update.InlineQuery"},
		{TypeChosenInlineResult, "*update.ChosenInlineResult"},
		{TypeCallbackQuery, "*update.CallbackQuery"},
		{TypeShippingQuery, "map[string]interface {}"},
	}
	for _, tt := range tests {
		got := TypedCast(tt.typ, map[string]any{})
		if name := typeName(got); name != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.typ, tt.want, name)
		}
	}

	if got := TypedCast(TypeMessage, "not a map"); got != "not a map" {
		t.Fatalf("expected raw passthrough, got %v", got)
	}
}

func TestIdentityCast(t *testing.T) {
	raw := map[string]any{"a": 1}
	got := IdentityCast(TypeMessage, raw)
	if got.(map[string]any)["a"] != 1 {
		t.Fatalf("expected identity, got %v", got)
	}
}

func TestDecode(t *testing.T) {
	u, err := Decode(strings.NewReader(`{"update_id":9007199254740993,"message":{"text":"hi"}}`), 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id := u["update_id"]; typeName(id) == "float64" {
		t.Fatalf("expected json number, got float64")
	}
	typ, payload := Classify(u)
	if typ != TypeMessage || FieldValue(payload, "text") != "hi" {
		t.Fatalf("unexpected classification: %q %v", typ, payload)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := Decode(strings.NewReader(""), 1024); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, err := Decode(strings.NewReader(`[1,2]`), 1024); !errors.Is(err, ErrNotObject) {
		t.Fatalf("expected ErrNotObject, got %v", err)
	}
	if _, err := Decode(strings.NewReader(`{broken`), 1024); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestDecode_SizeLimit(t *testing.T) {
	body := `{"message":{"text":"hi"}}`
	limit := int64(len(body))

	if _, err := Decode(strings.NewReader(body), limit); err != nil {
		t.Fatalf("body at the limit must decode, got %v", err)
	}
	if _, err := Decode(strings.NewReader(body+" "), limit); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge one byte over the limit, got %v", err)
	}
	if _, err := Decode(strings.NewReader(body+strings.Repeat(" ", 100)+"garbage"), 20); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := Decode(strings.NewReader(body+strings.Repeat(" ", 100)), 0); err != nil {
		t.Fatalf("expected no limit when maxBytes is 0, got %v", err)
	}
}

func TestDecode_TrailingData(t *testing.T) {
	tests := []string{
		`{"message":{}} garbage`,
		`{"message":{}}{"message":{}}`,
		`{"message":{}} }`,
		`{"message":{}},`,
	}
	for _, body := range tests {
		if _, err := Decode(strings.NewReader(body), 1024); err == nil {
			t.Errorf("expected trailing data to be rejected: %q", body)
		}
	}

	if _, err := Decode(strings.NewReader("  {\"message\":{}}\n\t "), 1024); err != nil {
		t.Fatalf("surrounding whitespace must be accepted, got %v", err)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *Message:
		return "*update.Message"
	case *InlineQuery:
		return "*update.InlineQuery"
	case *ChosenInlineResult:
		return "*update.ChosenInlineResult"
	case *CallbackQuery:
		return "*update.CallbackQuery"
	case map[string]any:
		return "map[string]interface {}"
	case float64:
		return "float64"
	default:
		return "other"
	}
}
