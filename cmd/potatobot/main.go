package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/app"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/logging"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := logging.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	entry := bootstrap.Entrypoint[config.Config]{
		LogFileName: "potatobot.log",
		LoadConfig:  config.LoadFromEnv,
		LogConfig:   func(cfg *config.Config) config.LogConfig { return cfg.Log },
		Initialize:  app.Initialize,
	}
	finalLogger, err := entry.Run(context.Background(), logger)
	if err != nil {
		finalLogger.Error("fatal", slog.Any("err", err))
		os.Exit(1)
	}
}
