// Package config: potato-bot 프로세스 설정을 환경 변수에서 조립한다.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	commonconfig "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/config"
	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
)

// ServerConfig: HTTP 서버 설정 alias
type ServerConfig = commonconfig.ServerConfig

// ServerTuningConfig: 서버 튜닝 설정 alias
type ServerTuningConfig = commonconfig.ServerTuningConfig

// LogConfig: 로깅 설정 alias
type LogConfig = commonconfig.LogConfig

// ValkeyConfig: Valkey 연결 설정 alias
type ValkeyConfig = commonconfig.ValkeyConfig

// StreamConfig: 스트림 소비 설정 alias
type StreamConfig = commonconfig.StreamConfig

// DispatchConfig: 업데이트 해석 옵션
type DispatchConfig struct {
	// AnyMention: 다른 봇을 멘션한 명령어도 받아들인다.
	AnyMention bool
	// TypedCast: 페이로드를 타입 구조체로 변환한다.
	TypedCast bool
}

// BotanConfig: 분석 추적 설정
type BotanConfig struct {
	Mode     BotanMode
	TrackURI string
	Timeout  time.Duration
	// Tokens: 봇 아이디 → 분석 토큰. 토큰이 없는 봇은 추적하지 않는다.
	Tokens map[string]string
	Stream StreamConfig
}

// Config: 전체 애플리케이션 설정
type Config struct {
	Server       ServerConfig
	ServerTuning ServerTuningConfig
	Bots         []bot.Bot
	DefaultBot   string
	Dispatch     DispatchConfig
	Botan        BotanConfig
	Valkey       ValkeyConfig
	Log          LogConfig
}

// LoadFromEnv: 환경 변수로부터 전체 설정을 로드한다.
func LoadFromEnv() (*Config, error) {
	server, err := commonconfig.ReadServerConfigFromEnv(DefaultServerPort)
	if err != nil {
		return nil, fmt.Errorf("read server config failed: %w", err)
	}
	serverTuning, err := commonconfig.ReadServerTuningConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read server tuning config failed: %w", err)
	}
	bots, err := readBots()
	if err != nil {
		return nil, err
	}
	dispatch, err := readDispatchConfig()
	if err != nil {
		return nil, err
	}
	valkey, err := commonconfig.ReadValkeyConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read valkey config failed: %w", err)
	}
	botan, err := readBotanConfig(bots)
	if err != nil {
		return nil, err
	}
	log, err := commonconfig.ReadLogConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("read log config failed: %w", err)
	}

	cfg := &Config{
		Server:       server,
		ServerTuning: serverTuning,
		Bots:         bots,
		DefaultBot:   commonconfig.StringFromEnv("BOT_DEFAULT", ""),
		Dispatch:     dispatch,
		Botan:        botan,
		Valkey:       valkey,
		Log:          log,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate: 항목 간 조합을 검증한다.
func (c *Config) Validate() error {
	if _, err := bot.NewRegistry(c.Bots, c.DefaultBot); err != nil {
		return err
	}
	if c.Botan.Mode == BotanAsync && strings.TrimSpace(c.Valkey.Addr) == "" {
		return cerrors.ConfigError{Key: "BOTAN_MODE", Err: fmt.Errorf("async mode requires VALKEY_ADDR")}
	}
	return nil
}

// EnvKey: 봇 아이디를 환경 변수 키 조각으로 변환한다. (main-bot → MAIN_BOT)
func EnvKey(id string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(id))
}

// readBots: BOTS=main,alt 와 BOT_<ID>_TOKEN / BOT_<ID>_USERNAME 으로 봇 목록을 만든다.
// BOTS 가 없으면 BOT_TOKEN / BOT_USERNAME 으로 단일 봇(main)을 구성한다.
func readBots() ([]bot.Bot, error) {
	ids := commonconfig.StringListFromEnv("BOTS", nil)
	if len(ids) == 0 {
		token := commonconfig.StringFromEnv("BOT_TOKEN", "")
		if token == "" {
			return nil, cerrors.ConfigError{Key: "BOTS", Err: fmt.Errorf("BOTS or BOT_TOKEN is required")}
		}
		return []bot.Bot{{
			ID:       "main",
			Token:    token,
			Username: normalizeUsername(commonconfig.StringFromEnv("BOT_USERNAME", "")),
		}}, nil
	}

	bots := make([]bot.Bot, 0, len(ids))
	for _, id := range ids {
		key := EnvKey(id)
		token := commonconfig.StringFromEnv("BOT_"+key+"_TOKEN", "")
		if token == "" {
			return nil, cerrors.ConfigError{Key: "BOT_" + key + "_TOKEN", Err: fmt.Errorf("token is required for bot %s", id)}
		}
		bots = append(bots, bot.Bot{
			ID:       id,
			Token:    token,
			Username: normalizeUsername(commonconfig.StringFromEnv("BOT_"+key+"_USERNAME", "")),
		})
	}
	return bots, nil
}

func normalizeUsername(username string) string {
	return strings.TrimPrefix(username, "@")
}

func readDispatchConfig() (DispatchConfig, error) {
	anyMention, err := commonconfig.BoolFromEnv("BOT_ANY_MENTION", false)
	if err != nil {
		return DispatchConfig{}, fmt.Errorf("read BOT_ANY_MENTION failed: %w", err)
	}
	typedCast, err := commonconfig.BoolFromEnv("UPDATE_TYPED_CAST", false)
	if err != nil {
		return DispatchConfig{}, fmt.Errorf("read UPDATE_TYPED_CAST failed: %w", err)
	}
	return DispatchConfig{AnyMention: anyMention, TypedCast: typedCast}, nil
}

func readBotanConfig(bots []bot.Bot) (BotanConfig, error) {
	mode := BotanMode(strings.ToLower(commonconfig.StringFromEnv("BOTAN_MODE", string(BotanHTTP))))
	switch mode {
	case BotanOff, BotanHTTP, BotanDebug, BotanAsync, BotanStub:
	default:
		return BotanConfig{}, cerrors.ConfigError{Key: "BOTAN_MODE", Err: fmt.Errorf("unknown mode %q", mode)}
	}

	timeout, err := commonconfig.DurationSecondsFromEnv("BOTAN_TIMEOUT_SECONDS", int64(DefaultBotanTimeout/time.Second))
	if err != nil {
		return BotanConfig{}, fmt.Errorf("read BOTAN_TIMEOUT_SECONDS failed: %w", err)
	}

	stream, err := commonconfig.ReadStreamConfigFromEnv("BOTAN_", StreamConfig{
		StreamKey:     DefaultBotanStreamKey,
		ConsumerGroup: DefaultBotanConsumerGroup,
		BatchSize:     DefaultBotanBatchSize,
		BlockTimeout:  DefaultBotanBlockTimeout,
		StreamMaxLen:  DefaultBotanStreamMaxLen,
	})
	if err != nil {
		return BotanConfig{}, fmt.Errorf("read botan stream config failed: %w", err)
	}

	tokens := make(map[string]string, len(bots))
	for _, b := range bots {
		if token := commonconfig.StringFromEnv("BOTAN_"+EnvKey(b.ID)+"_TOKEN", ""); token != "" {
			tokens[b.ID] = token
		}
	}
	if len(bots) == 1 {
		if token := commonconfig.StringFromEnv("BOTAN_TOKEN", ""); token != "" {
			if _, ok := tokens[bots[0].ID]; !ok {
				tokens[bots[0].ID] = token
			}
		}
	}

	return BotanConfig{
		Mode:     mode,
		TrackURI: commonconfig.StringFromEnv("BOTAN_TRACK_URI", ""),
		Timeout:  timeout,
		Tokens:   tokens,
		Stream:   stream,
	}, nil
}
