package webhook

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/logging"
)

// RequestIDHeader: 요청 ID 헤더 키
const RequestIDHeader = "X-Request-ID"

// RequestID: 요청 ID 를 부여해 요청 ctx(logging.WithRequestID) 에 싣고 응답 헤더로 돌려준다.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func generateRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// RequestLogger: 요청 결과를 상태 코드에 따라 error/warn/debug 레벨로 남긴다. /health 성공은 남기지 않는다.
// request_id 와 bot 은 요청 ctx 에서 logging.ContextHandler 가 붙인다.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		if status < http.StatusBadRequest && len(c.Errors) == 0 && path == healthPath {
			return
		}

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(startedAt),
			"bytes", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(ctx, "http_request", fields...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(ctx, "http_request", fields...)
		default:
			logger.DebugContext(ctx, "http_request", fields...)
		}
	}
}
