package config

import "time"

// 기본값
const (
	DefaultServerPort = 40290

	DefaultBotanTimeout = 5 * time.Second

	DefaultBotanStreamKey     = "potato:botan:track"
	DefaultBotanConsumerGroup = "botan-worker"
	DefaultBotanBatchSize     = 10
	DefaultBotanBlockTimeout  = 5 * time.Second
	DefaultBotanStreamMaxLen  = 10000
)

// BotanMode: 분석 요청 전송 방식
type BotanMode string

// BotanMode 상수 목록.
const (
	// BotanOff: 추적하지 않음
	BotanOff BotanMode = "off"
	// BotanHTTP: 요청 스레드에서 바로 HTTP 전송
	BotanHTTP BotanMode = "http"
	// BotanDebug: HTTP 전송 + 요청/응답 로그
	BotanDebug BotanMode = "debug"
	// BotanAsync: Valkey 스트림에 넣고 워커가 전송
	BotanAsync BotanMode = "async"
	// BotanStub: 전송하지 않고 메모리에 기록 (개발용)
	BotanStub BotanMode = "stub"
)
