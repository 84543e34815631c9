package config

import "time"

// ServerConfig: HTTP 서버 바인딩 설정
type ServerConfig struct {
	Host string
	Port int
}

// ServerTuningConfig: HTTP 서버 타임아웃/제한 설정
type ServerTuningConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	// MaxBodyBytes: 웹훅 본문 최대 크기
	MaxBodyBytes int64
	// H2C: 평문 HTTP/2 허용 여부
	H2C bool
}

// LogConfig: 파일 로그 출력 설정. Dir 가 비어 있으면 파일 로그를 사용하지 않는다.
type LogConfig struct {
	Level      string
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ValkeyConfig: Valkey 연결 설정. Addr 가 비어 있으면 큐를 사용하지 않는다.
type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int

	DialTimeout time.Duration
}

// StreamConfig: Valkey 스트림 소비 설정
type StreamConfig struct {
	StreamKey     string
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int64
	BlockTimeout  time.Duration
	StreamMaxLen  int64
}
