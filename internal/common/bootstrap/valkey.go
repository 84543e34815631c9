package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/valkeyx"
)

// NewAndPingValkeyClient: Valkey 클라이언트를 생성하고 Ping 으로 연결을 확인한다.
// 실패하면 생성한 클라이언트를 닫고 에러를 반환한다.
func NewAndPingValkeyClient(
	ctx context.Context,
	cfg valkeyx.Config,
	name string,
	logger *slog.Logger,
) (valkey.Client, func(), error) {
	client, err := valkeyx.NewClient(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s client failed: %w", name, err)
	}

	closeFn := func() {
		valkeyx.Close(client)
		logger.Debug("valkey_client_closed", slog.String("name", name))
	}

	if pingErr := valkeyx.Ping(ctx, client); pingErr != nil {
		closeFn()
		return nil, nil, fmt.Errorf("%s ping failed: %w", name, pingErr)
	}
	return client, closeFn, nil
}
