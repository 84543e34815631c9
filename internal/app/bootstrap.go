// Package app: 설정으로 봇 체인, 분석 추적, 웹훅 서버를 조립한다.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/assets"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/botan"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/command"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/httpserver"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/messageprovider"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/valkeyx"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/config"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/dispatch"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/webhook"
)

const (
	appName         = "potato-bot"
	shutdownTimeout = 10 * time.Second
)

// Components: Initialize 가 조립한 구성 요소
type Components struct {
	Bots    *bot.Registry
	Chain   *dispatch.Chain
	Handler *webhook.Handler
	Tasks   []bootstrap.BackgroundTask
	// BotanStub: BOTAN_MODE=stub 일 때 기록된 요청
	BotanStub *botan.StubRequester
}

// Initialize: 의존성을 초기화하고 ServerApp 을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	var (
		mqClient valkey.Client
		cleanup  = func() {}
	)
	if strings.TrimSpace(cfg.Valkey.Addr) != "" {
		client, closeFn, err := bootstrap.NewAndPingValkeyClient(ctx, valkeyx.ConfigFrom(cfg.Valkey), "valkey", logger)
		if err != nil {
			return nil, nil, err
		}
		mqClient = client
		cleanup = closeFn
	}

	components, err := Build(cfg, mqClient, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	router := webhook.NewRouter(cfg.Log.Level, logger, components.Handler)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := httpserver.NewServer(addr, router, httpserver.OptionsFromConfig(cfg.ServerTuning))

	return bootstrap.NewServerApp(bootstrap.ServerAppConfig{
		Name:            appName,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
		Tasks:           components.Tasks,
		Summary: []slog.Attr{
			slog.Int("bots", len(components.Bots.All())),
			slog.String("default_bot", components.Bots.Default().ID),
			slog.String("botan_mode", string(cfg.Botan.Mode)),
		},
	}), cleanup, nil
}

// Build: 네트워크 연결 없이 구성 요소를 조립한다. mqClient 는 없어도 된다.
func Build(cfg *config.Config, mqClient valkey.Client, logger *slog.Logger) (*Components, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bots, err := bot.NewRegistry(cfg.Bots, cfg.DefaultBot)
	if err != nil {
		return nil, fmt.Errorf("build bot registry failed: %w", err)
	}

	msgs, err := messageprovider.NewFromYAMLAtPath(assets.BotMessagesYAML, "default")
	if err != nil {
		return nil, fmt.Errorf("load bot messages failed: %w", err)
	}

	stack, err := newBotanStack(cfg.Botan, cfg.Bots, mqClient, logger)
	if err != nil {
		return nil, fmt.Errorf("build botan stack failed: %w", err)
	}

	chain := NewDefaultChain(msgs, stack.registry, logger)

	var checks []health.Check
	if mqClient != nil {
		checks = append(checks, health.Check{
			Name:  "valkey",
			Probe: func(ctx context.Context) error { return valkeyx.Ping(ctx, mqClient) },
		})
	}

	handler := webhook.NewHandler(webhook.Config{
		Bots:         bots,
		Chains:       func(*bot.Bot) *dispatch.Chain { return chain },
		Options:      dispatchOptions(cfg.Dispatch),
		MaxBodyBytes: cfg.ServerTuning.MaxBodyBytes,
		HealthChecks: checks,
		Logger:       logger,
	})

	components := &Components{
		Bots:      bots,
		Chain:     chain,
		Handler:   handler,
		Tasks:     stack.tasks,
		BotanStub: stack.stub,
	}
	return components, nil
}

func dispatchOptions(cfg config.DispatchConfig) dispatch.Options {
	var opts dispatch.Options
	if cfg.AnyMention {
		opts.Mention = command.AnyMention()
	}
	if cfg.TypedCast {
		opts.Cast = update.TypedCast
	}
	return opts
}
