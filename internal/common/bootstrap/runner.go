package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/httpserver"
)

// BackgroundTask: 서버와 같은 수명으로 실행되는 작업
type BackgroundTask struct {
	Name        string
	ErrorLogKey string
	Run         func(ctx context.Context) error
}

// RunHTTPServer: 서버와 백그라운드 작업을 errgroup 으로 실행한다.
// 하나라도 실패하면 나머지도 취소된다.
func RunHTTPServer(
	ctx context.Context,
	logger *slog.Logger,
	name string,
	server *http.Server,
	shutdownTimeout time.Duration,
	backgroundTasks ...BackgroundTask,
) error {
	if logger == nil {
		logger = slog.Default()
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)

	for _, task := range backgroundTasks {
		if task.Run == nil {
			continue
		}

		g.Go(func() error {
			if err := task.Run(gctx); err != nil {
				logKey := task.ErrorLogKey
				if logKey == "" {
					logKey = "background_task_failed"
				}
				logger.Error(logKey, slog.String("task", task.Name), slog.Any("err", err))
				return fmt.Errorf("%s failed: %w", task.Name, err)
			}
			return nil
		})
	}

	if server != nil {
		logger.Info("server_start", slog.String("app", name), slog.String("addr", server.Addr))
		g.Go(func() error {
			if err := httpserver.Serve(gctx, server, shutdownTimeout); err != nil {
				return fmt.Errorf("http server serve failed: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run http server failed: %w", err)
	}
	logger.Info("server_stopped", slog.String("app", name))
	return nil
}
