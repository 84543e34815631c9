package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// ServerAppConfig: ServerApp 구성 요소
type ServerAppConfig struct {
	Name            string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration
	Tasks           []BackgroundTask
	// Summary: 시작 로그(app_starting)에 함께 남길 속성. 봇 수, 분석 모드 등.
	Summary []slog.Attr
}

// ServerApp: 웹훅 서버와 같은 수명으로 도는 작업(분석 워커 등) 묶음
type ServerApp struct {
	cfg ServerAppConfig
}

// NewServerApp: ServerApp 을 생성한다. Run 전까지는 WithTask 로 작업을 더할 수 있다.
func NewServerApp(cfg ServerAppConfig) *ServerApp {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ServerApp{cfg: cfg}
}

// WithTask: 백그라운드 작업을 더한다.
func (a *ServerApp) WithTask(task BackgroundTask) *ServerApp {
	a.cfg.Tasks = append(a.cfg.Tasks, task)
	return a
}

// Name: 앱 이름
func (a *ServerApp) Name() string { return a.cfg.Name }

// Server: 웹훅 HTTP 서버. 서버 없이 작업만 돌리면 nil.
func (a *ServerApp) Server() *http.Server { return a.cfg.Server }

// TaskNames: 등록된 백그라운드 작업 이름
func (a *ServerApp) TaskNames() []string {
	names := make([]string, 0, len(a.cfg.Tasks))
	for _, task := range a.cfg.Tasks {
		names = append(names, task.Name)
	}
	return names
}

// Run: SIGINT/SIGTERM 또는 ctx 취소까지 서버와 작업을 실행한다. nil 이면 아무것도 하지 않는다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}
	attrs := append([]slog.Attr{
		slog.String("app", a.cfg.Name),
		slog.Any("tasks", a.TaskNames()),
	}, a.cfg.Summary...)
	a.cfg.Logger.LogAttrs(ctx, slog.LevelInfo, "app_starting", attrs...)

	return RunHTTPServer(ctx, a.cfg.Logger, a.cfg.Name, a.cfg.Server, a.cfg.ShutdownTimeout, a.cfg.Tasks...)
}
