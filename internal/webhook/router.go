package webhook

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// NewRouter: 미들웨어와 웹훅/헬스 라우트를 구성한 gin 엔진을 반환한다.
func NewRouter(logLevel string, logger *slog.Logger, handler *Handler) *gin.Engine {
	setGinMode(logLevel)

	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(logger),
		gin.Recovery(),
	)
	handler.RegisterRoutes(router)
	return router
}

func setGinMode(level string) {
	if gin.Mode() == gin.TestMode {
		return
	}
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
