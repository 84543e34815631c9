// Package health: /health 응답과 의존성 점검을 제공한다.
package health

import (
	"context"
	"runtime"
	"sync"
	"time"
)

var (
	startTime = time.Now()
	version   = "dev"
	initOnce  sync.Once
)

// Init: 서비스 시작 시 한 번 호출한다. (버전, 시작 시각)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Check: 의존성 점검. 이름과 점검 함수
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Response: /health 응답
type Response struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Uptime     string            `json:"uptime"`
	Goroutines int               `json:"goroutines"`
	Components map[string]string `json:"components,omitempty"`
}

// Healthy: 모든 점검이 통과했는지 여부
func (r Response) Healthy() bool {
	return r.Status == "ok"
}

// Get: 현재 상태와 점검 결과를 반환한다. 하나라도 실패하면 status=degraded.
func Get(ctx context.Context, checks ...Check) Response {
	resp := Response{
		Status:     "ok",
		Version:    version,
		Uptime:     formatDuration(time.Since(startTime)),
		Goroutines: runtime.NumGoroutine(),
	}
	if len(checks) == 0 {
		return resp
	}

	resp.Components = make(map[string]string, len(checks))
	for _, c := range checks {
		if c.Probe == nil {
			continue
		}
		if err := c.Probe(ctx); err != nil {
			resp.Components[c.Name] = "down: " + err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Components[c.Name] = "up"
	}
	return resp
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
