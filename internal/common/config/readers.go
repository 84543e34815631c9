package config

import (
	"fmt"
	"os"
	"strings"
)

// ReadServerConfigFromEnv: HTTP 서버 호스트와 포트 설정을 환경 변수에서 읽어옵니다.
func ReadServerConfigFromEnv(defaultPort int) (ServerConfig, error) {
	serverPort, err := IntFromEnvFirstNonEmpty([]string{"SERVER_PORT", "PORT"}, defaultPort)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}
	if serverPort <= 0 || serverPort > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid SERVER_PORT: %d", serverPort)
	}

	return ServerConfig{
		Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
		Port: serverPort,
	}, nil
}

// ReadServerTuningConfigFromEnv: HTTP 서버 튜닝 설정(Timeouts, Limits)을 환경 변수에서 읽어옵니다.
func ReadServerTuningConfigFromEnv() (ServerTuningConfig, error) {
	readHeaderTimeout, err := DurationSecondsFromEnv("SERVER_READ_HEADER_TIMEOUT_SECONDS", 5)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_READ_HEADER_TIMEOUT_SECONDS failed: %w", err)
	}

	idleTimeout, err := DurationSecondsFromEnv("SERVER_IDLE_TIMEOUT_SECONDS", 90)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_IDLE_TIMEOUT_SECONDS failed: %w", err)
	}

	maxHeaderBytes, err := IntFromEnv("SERVER_MAX_HEADER_BYTES", 1<<20) // 1MiB
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_HEADER_BYTES failed: %w", err)
	}
	if maxHeaderBytes < 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_HEADER_BYTES: %d", maxHeaderBytes)
	}

	maxBodyBytes, err := Int64FromEnv("SERVER_MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_MAX_BODY_BYTES failed: %w", err)
	}
	if maxBodyBytes <= 0 {
		return ServerTuningConfig{}, fmt.Errorf("invalid SERVER_MAX_BODY_BYTES: %d", maxBodyBytes)
	}

	h2c, err := BoolFromEnv("SERVER_H2C", true)
	if err != nil {
		return ServerTuningConfig{}, fmt.Errorf("read SERVER_H2C failed: %w", err)
	}

	return ServerTuningConfig{
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		MaxBodyBytes:      maxBodyBytes,
		H2C:               h2c,
	}, nil
}

// ReadLogConfigFromEnv: 로그 레벨과 파일 출력 설정(디렉터리, 크기, 백업 수)을 환경 변수에서 읽어옵니다.
func ReadLogConfigFromEnv() (LogConfig, error) {
	level := strings.ToLower(StringFromEnv("LOG_LEVEL", "info"))
	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{Level: level}, nil
	}

	maxSizeMB, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 10)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	if maxSizeMB <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_SIZE_MB: %d", maxSizeMB)
	}

	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	if maxBackups <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_BACKUPS: %d", maxBackups)
	}

	maxAgeDays, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	if maxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_AGE_DAYS: %d", maxAgeDays)
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Level:      level,
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}

// ReadValkeyConfigFromEnv: Valkey 연결 설정을 환경 변수에서 읽어옵니다.
// VALKEY_ADDR 이 없으면 VALKEY_HOST/VALKEY_PORT 로 주소를 만들고, 둘 다 없으면 비활성 상태를 반환합니다.
func ReadValkeyConfigFromEnv() (ValkeyConfig, error) {
	addr := StringFromEnvFirstNonEmpty([]string{"VALKEY_ADDR", "REDIS_ADDR"}, "")
	if addr == "" {
		host := StringFromEnvFirstNonEmpty([]string{"VALKEY_HOST", "REDIS_HOST"}, "")
		if host != "" {
			port, err := IntFromEnvFirstNonEmpty([]string{"VALKEY_PORT", "REDIS_PORT"}, 6379)
			if err != nil {
				return ValkeyConfig{}, fmt.Errorf("read valkey port failed: %w", err)
			}
			addr = fmt.Sprintf("%s:%d", host, port)
		}
	}

	db, err := IntFromEnv("VALKEY_DB", 0)
	if err != nil {
		return ValkeyConfig{}, fmt.Errorf("read VALKEY_DB failed: %w", err)
	}

	dialTimeout, err := DurationMillisFromEnv("VALKEY_DIAL_TIMEOUT_MILLIS", 5000)
	if err != nil {
		return ValkeyConfig{}, fmt.Errorf("read VALKEY_DIAL_TIMEOUT_MILLIS failed: %w", err)
	}

	return ValkeyConfig{
		Addr:        addr,
		Password:    StringFromEnvFirstNonEmpty([]string{"VALKEY_PASSWORD", "REDIS_PASSWORD"}, ""),
		DB:          db,
		DialTimeout: dialTimeout,
	}, nil
}

// ReadStreamConfigFromEnv: prefix 로 시작하는 스트림 소비 설정을 읽어옵니다.
func ReadStreamConfigFromEnv(prefix string, defaults StreamConfig) (StreamConfig, error) {
	batchSize, err := Int64FromEnv(prefix+"BATCH_SIZE", defaults.BatchSize)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read %sBATCH_SIZE failed: %w", prefix, err)
	}
	blockTimeout, err := DurationMillisFromEnv(prefix+"BLOCK_TIMEOUT_MILLIS", defaults.BlockTimeout.Milliseconds())
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read %sBLOCK_TIMEOUT_MILLIS failed: %w", prefix, err)
	}
	maxLen, err := Int64FromEnv(prefix+"STREAM_MAX_LEN", defaults.StreamMaxLen)
	if err != nil {
		return StreamConfig{}, fmt.Errorf("read %sSTREAM_MAX_LEN failed: %w", prefix, err)
	}

	if batchSize <= 0 {
		batchSize = defaults.BatchSize
	}
	if maxLen <= 0 {
		maxLen = defaults.StreamMaxLen
	}

	consumerName := defaults.ConsumerName
	if consumerName == "" {
		consumerName, _ = os.Hostname()
	}

	return StreamConfig{
		StreamKey:     StringFromEnv(prefix+"STREAM_KEY", defaults.StreamKey),
		ConsumerGroup: StringFromEnv(prefix+"CONSUMER_GROUP", defaults.ConsumerGroup),
		ConsumerName:  StringFromEnv(prefix+"CONSUMER_NAME", consumerName),
		BatchSize:     batchSize,
		BlockTimeout:  blockTimeout,
		StreamMaxLen:  maxLen,
	}, nil
}
