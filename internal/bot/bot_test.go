package bot

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"

	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry([]Bot{
		{ID: "main", Token: "t1", Username: "main_bot"},
		{ID: "alt", Token: "t2"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := r.Default(); got == nil || got.ID != "main" {
		t.Fatalf("expected main as default, got %+v", got)
	}
	if b, ok := r.ByID("alt"); !ok || b.Token != "t2" {
		t.Fatalf("expected alt bot, got %+v %v", b, ok)
	}
	if _, ok := r.ByID("nope"); ok {
		t.Fatalf("expected unknown bot lookup to fail")
	}

	all := r.All()
	if len(all) != 2 || all[0].ID != "alt" || all[1].ID != "main" {
		t.Fatalf("unexpected bots: %+v", all)
	}
}

func TestNewRegistry_ExplicitDefault(t *testing.T) {
	r, err := NewRegistry([]Bot{{ID: "a", Token: "t"}, {ID: "b", Token: "t"}}, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Default().ID != "b" {
		t.Fatalf("expected b as default, got %s", r.Default().ID)
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		bots      []Bot
		defaultID string
	}{
		{name: "empty", bots: nil},
		{name: "missing token", bots: []Bot{{ID: "a"}}},
		{name: "missing id", bots: []Bot{{Token: "t"}}},
		{name: "username with mention", bots: []Bot{{ID: "a", Token: "t", Username: "@bot"}}},
		{name: "duplicate", bots: []Bot{{ID: "a", Token: "t"}, {ID: "a", Token: "u"}}},
		{name: "unknown default", bots: []Bot{{ID: "a", Token: "t"}}, defaultID: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.bots, tt.defaultID)
			var cfgErr cerrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestBotValidate_ReportsField(t *testing.T) {
	err := Bot{ID: "a"}.Validate()
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if validationErrors[0].Field() != "Token" {
		t.Fatalf("expected Token field, got %s", validationErrors[0].Field())
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	if r.Default() != nil || r.All() != nil {
		t.Fatalf("expected nil registry to return nil")
	}
	if _, ok := r.ByID("a"); ok {
		t.Fatalf("expected lookup to fail")
	}
}
