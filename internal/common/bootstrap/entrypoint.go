// Package bootstrap: .env 와 설정 로드부터 웹훅 서버/백그라운드 작업 실행까지 봇 프로세스의 시작 흐름.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	commonconfig "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/config"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/logging"
)

// Entrypoint: 설정 타입 C 를 쓰는 봇 프로세스의 시작 단계 묶음
type Entrypoint[C any] struct {
	// LogFileName: LogConfig.Dir 가 설정됐을 때 쓰는 로그 파일 이름
	LogFileName string
	// DotenvPaths: 비어 있으면 commonconfig.DotenvPaths()
	DotenvPaths []string

	LoadConfig func() (*C, error)
	// LogConfig: nil 이면 전달받은 로거를 그대로 쓴다.
	LogConfig  func(*C) commonconfig.LogConfig
	Initialize func(context.Context, *C, *slog.Logger) (*ServerApp, func(), error)
}

// Run: .env → 설정 → 로거 → 앱 초기화 → 실행 순서로 진행한다.
// 반환되는 로거는 설정에 따라 교체된 로거라서 실패 로그에도 그것을 쓴다.
func (e Entrypoint[C]) Run(ctx context.Context, logger *slog.Logger) (*slog.Logger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dotenvFiles, err := commonconfig.LoadDotenvIfPresent(e.DotenvPaths...)
	if err != nil {
		return logger, fmt.Errorf("load dotenv failed: %w", err)
	}

	cfg, err := e.LoadConfig()
	if err != nil {
		return logger, fmt.Errorf("load config failed: %w", err)
	}

	if e.LogConfig != nil {
		logger, err = configureLogger(logger, e.LogConfig(cfg), e.LogFileName)
		if err != nil {
			return logger, err
		}
	}
	if len(dotenvFiles) > 0 {
		logger.Info("dotenv_loaded", slog.Any("files", dotenvFiles))
	}

	app, cleanup, err := e.Initialize(ctx, cfg, logger)
	if err != nil {
		return logger, fmt.Errorf("initialize app failed: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := app.Run(ctx); err != nil {
		return logger, fmt.Errorf("run app failed: %w", err)
	}
	return logger, nil
}

// configureLogger: Dir 가 있으면 파일 로깅, 레벨만 있으면 stdout 로거를 새로 만든다. 둘 다 없으면 그대로.
func configureLogger(logger *slog.Logger, cfg commonconfig.LogConfig, fileName string) (*slog.Logger, error) {
	switch {
	case strings.TrimSpace(cfg.Dir) != "":
		fileLogger, err := logging.EnableFileLogging(cfg, fileName)
		if err != nil {
			return logger, fmt.Errorf("enable file logging failed: %w", err)
		}
		if fileLogger != nil {
			return fileLogger, nil
		}
		return logger, nil
	case strings.TrimSpace(cfg.Level) != "":
		leveled := logging.NewLogger(logging.ParseLevel(cfg.Level))
		slog.SetDefault(leveled)
		return leveled, nil
	default:
		return logger, nil
	}
}
