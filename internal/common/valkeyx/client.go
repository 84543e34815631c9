// Package valkeyx: valkey-go 클라이언트 생성과 공통 에러 판별 헬퍼를 제공한다.
package valkeyx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	commonconfig "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/config"
)

// Config: Valkey 클라이언트 연결 설정
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration

	// DisableCache: 클라이언트 사이드 캐싱 비활성화. miniredis 사용 시 true.
	DisableCache bool
}

// ConfigFrom: 공용 설정을 클라이언트 설정으로 변환한다.
func ConfigFrom(cfg commonconfig.ValkeyConfig) Config {
	return Config{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		// 스트림 명령만 사용하므로 캐시가 필요 없다.
		DisableCache: true,
	}
}

// NewClient: 설정으로 Valkey 클라이언트를 생성한다.
func NewClient(cfg Config) (valkey.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("valkey addr is empty")
	}

	opts := valkey.ClientOption{
		InitAddress:  []string{addr},
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: cfg.DisableCache,
	}
	if cfg.DialTimeout > 0 {
		opts.Dialer.Timeout = cfg.DialTimeout
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client failed: %w", err)
	}
	return client, nil
}

// Ping: PING 으로 연결 상태를 점검한다.
func Ping(ctx context.Context, client valkey.Client) error {
	if client == nil {
		return errors.New("valkey client is nil")
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping failed: %w", err)
	}
	return nil
}

// IsNil: Valkey nil 응답(키 없음, 블로킹 읽기 타임아웃) 에러인지 확인한다. 래핑된 에러도 검사한다.
func IsNil(err error) bool {
	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if valkey.IsValkeyNil(unwrapped) {
			return true
		}
	}
	return false
}

// IsBusyGroup: XGROUP CREATE 시 그룹이 이미 존재한다는 에러인지 확인한다.
func IsBusyGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}

// IsNoGroup: 컨슈머 그룹 또는 스트림이 없다는 에러인지 확인한다.
func IsNoGroup(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NOGROUP") ||
		strings.Contains(strings.ToLower(msg), "no such key") ||
		strings.Contains(msg, "requires the key to exist")
}

// Close: nil 이 아니면 클라이언트를 닫는다.
func Close(client valkey.Client) {
	if client != nil {
		client.Close()
	}
}
