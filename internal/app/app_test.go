package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/valkeyx"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/config"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/webhook"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(mode config.BotanMode) *config.Config {
	return &config.Config{
		Bots: []bot.Bot{{ID: "main", Token: "bot-token", Username: "potato_bot"}},
		Botan: config.BotanConfig{
			Mode:   mode,
			Tokens: map[string]string{"main": "botan-token"},
			Stream: config.StreamConfig{
				StreamKey:     config.DefaultBotanStreamKey,
				ConsumerGroup: config.DefaultBotanConsumerGroup,
				ConsumerName:  "test",
				BatchSize:     config.DefaultBotanBatchSize,
				StreamMaxLen:  config.DefaultBotanStreamMaxLen,
			},
		},
	}
}

func serve(t *testing.T, components *Components, body string) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := webhook.NewRouter("info", discardLogger(), components.Handler)

	req := httptest.NewRequest(http.MethodPost, "/webhook/main", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

const startUpdate = `{"update_id":1,"message":{"message_id":1,"text":"/start","from":{"id":123},"chat":{"id":456}}}`

func TestDefaultBot_StartRepliesAndTracks(t *testing.T) {
	components, err := Build(testConfig(config.BotanStub), nil, discardLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	reply := serve(t, components, startUpdate)
	if reply["method"] != "sendMessage" || reply["text"] != "from default" || reply["chat_id"] != float64(456) {
		t.Fatalf("unexpected reply: %v", reply)
	}

	requests := components.BotanStub.Requests()
	if len(requests) != 1 {
		t.Fatalf("expected one tracked request, got %d", len(requests))
	}
	q := requests[0].Query
	if q.Get("name") != "start" || q.Get("uid") != "123" || q.Get("token") != "botan-token" {
		t.Fatalf("unexpected track query: %v", q)
	}
}

func TestDefaultBot_Actions(t *testing.T) {
	components, err := Build(testConfig(config.BotanOff), nil, discardLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if components.BotanStub != nil {
		t.Fatalf("expected no stub in off mode")
	}

	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "echo",
			body: `{"message":{"text":"/echo@potato_bot hello world","chat":{"id":1}}}`,
			want: map[string]any{"method": "sendMessage", "chat_id": float64(1), "text": "hello world"},
		},
		{
			name: "unknown command",
			body: `{"message":{"text":"/nope","chat":{"id":1}}}`,
			want: map[string]any{"method": "sendMessage", "chat_id": float64(1), "text": "알 수 없는 명령어입니다: /nope"},
		},
		{
			name: "unknown command keeps typed name",
			body: `{"message":{"text":"/Message","chat":{"id":1}}}`,
			want: map[string]any{"method": "sendMessage", "chat_id": float64(1), "text": "알 수 없는 명령어입니다: /Message"},
		},
		{
			name: "unknown numeric command",
			body: `{"message":{"text":"/2fa","chat":{"id":1}}}`,
			want: map[string]any{"method": "sendMessage", "chat_id": float64(1), "text": "알 수 없는 명령어입니다: /2fa"},
		},
		{
			name: "unknown channel post command",
			body: `{"channel_post":{"text":"/channel_post","chat":{"id":2}}}`,
			want: map[string]any{"method": "sendMessage", "chat_id": float64(2), "text": "알 수 없는 명령어입니다: /channel_post"},
		},
		{
			name: "callback query",
			body: `{"callback_query":{"id":"cb1","data":"x","message":{"chat":{"id":1}}}}`,
			want: map[string]any{"method": "answerCallbackQuery", "callback_query_id": "cb1", "text": "선택: x"},
		},
		{
			name: "plain text",
			body: `{"message":{"text":"hello","chat":{"id":1}}}`,
			want: map[string]any{},
		},
		{
			name: "command for another bot",
			body: `{"message":{"text":"/start@other_bot","chat":{"id":1}}}`,
			want: map[string]any{},
		},
		{
			name: "unsupported",
			body: `{"poll":{"id":"p"}}`,
			want: map[string]any{},
		},
		{
			name: "edited message",
			body: `{"edited_message":{"text":"/start","chat":{"id":1}}}`,
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serve(t, components, tt.body)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("expected %s=%v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestBuild_AnyMention(t *testing.T) {
	cfg := testConfig(config.BotanOff)
	cfg.Dispatch.AnyMention = true
	components, err := Build(cfg, nil, discardLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got := serve(t, components, `{"message":{"text":"/start@other_bot","chat":{"id":1}}}`)
	if got["text"] != "from default" {
		t.Fatalf("expected any mention to dispatch start, got %v", got)
	}
}

func TestBuild_AsyncBotan(t *testing.T) {
	mini := miniredis.RunT(t)
	client, err := valkeyx.NewClient(valkeyx.Config{Addr: mini.Addr(), DisableCache: true})
	if err != nil {
		t.Fatalf("valkey client: %v", err)
	}
	t.Cleanup(client.Close)

	components, err := Build(testConfig(config.BotanAsync), client, discardLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(components.Tasks) != 1 || components.Tasks[0].Name != "botan_worker" {
		t.Fatalf("expected botan worker task, got %+v", components.Tasks)
	}

	serve(t, components, startUpdate)

	entries, err := mini.Stream(config.DefaultBotanStreamKey)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one queued track request, got %d", len(entries))
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(testConfig(config.BotanAsync), nil, discardLogger()); err == nil {
		t.Fatalf("expected async mode without valkey to fail")
	}

	cfg := testConfig(config.BotanOff)
	cfg.DefaultBot = "missing"
	if _, err := Build(cfg, nil, discardLogger()); err == nil {
		t.Fatalf("expected unknown default bot to fail")
	}
}

func TestInitialize(t *testing.T) {
	cfg := testConfig(config.BotanOff)
	cfg.Server = config.ServerConfig{Host: "127.0.0.1", Port: 0}

	serverApp, cleanup, err := Initialize(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	defer cleanup()

	if srv := serverApp.Server(); srv == nil || srv.Addr != "127.0.0.1:0" {
		t.Fatalf("unexpected server: %+v", srv)
	}
	if serverApp.Name() != appName || len(serverApp.TaskNames()) != 0 {
		t.Fatalf("unexpected server app: name=%q tasks=%v", serverApp.Name(), serverApp.TaskNames())
	}
}
