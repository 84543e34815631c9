// Package errors: 봇 서비스 전체에서 공용으로 사용되는 에러 타입들을 정의한다.
// 명령어가 아닌 텍스트나 지원하지 않는 업데이트는 에러가 아니라 일반 결과로 다룬다.
package errors

import (
	"errors"
	"fmt"
)

// QueueError: Valkey 스트림 작업을 수행하는 도중 발생한 에러
type QueueError struct {
	Operation string
	Stream    string
	Err       error
}

func (e QueueError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("queue error operation=%s stream=%s", e.Operation, e.Stream)
	}
	return fmt.Sprintf("queue error operation=%s stream=%s: %v", e.Operation, e.Stream, e.Err)
}

func (e QueueError) Unwrap() error { return e.Err }

// TrackError: 분석 API 가 성공이 아닌 상태 코드를 반환했을 때의 에러
type TrackError struct {
	Status int
	Reason string
	Info   string
}

func (e TrackError) Error() string {
	info := e.Info
	if info == "" {
		info = "-"
	}
	return fmt.Sprintf("%s: %s", e.Reason, info)
}

// ConfigError: 설정 값이 없거나 형식이 올바르지 않을 때의 에러
type ConfigError struct {
	Key string
	Err error
}

func (e ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid config key=%s", e.Key)
	}
	return fmt.Sprintf("invalid config key=%s: %v", e.Key, e.Err)
}

func (e ConfigError) Unwrap() error { return e.Err }

// BotNotFoundError: 등록되지 않은 봇 아이디로 요청이 들어왔을 때의 에러
type BotNotFoundError struct {
	BotID string
}

func (e BotNotFoundError) Error() string { return fmt.Sprintf("bot not found: %s", e.BotID) }

// MalformedUpdateError: 웹훅 본문을 업데이트로 해석할 수 없을 때의 에러
type MalformedUpdateError struct {
	Err error
}

func (e MalformedUpdateError) Error() string {
	if e.Err == nil {
		return "malformed update"
	}
	return "malformed update: " + e.Err.Error()
}

func (e MalformedUpdateError) Unwrap() error { return e.Err }

var expectedRequestErrorTypes = []func() any{
	func() any { return new(BotNotFoundError) },
	func() any { return new(MalformedUpdateError) },
}

// IsExpectedRequestError: 호출자 실수로 발생한 에러인지 확인한다. (warn 레벨로 로깅하는 용도)
func IsExpectedRequestError(err error) bool {
	if err == nil {
		return false
	}
	for _, targetFn := range expectedRequestErrorTypes {
		if errors.As(err, targetFn()) {
			return true
		}
	}
	return false
}
