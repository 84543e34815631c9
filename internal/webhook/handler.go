// Package webhook: 봇별 웹훅 엔드포인트로 업데이트를 받아 디스패치하는 gin 어댑터.
package webhook

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/action"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	cerrors "github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/health"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/logging"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/dispatch"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/update"
)

const (
	healthPath  = "/health"
	webhookPath = "/webhook/:bot"

	defaultMaxBodyBytes = 1 << 20
)

// ErrorResponse: 에러 응답 본문
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ChainResolver: 봇에 해당하는 액션 체인. nil 이면 404 로 처리한다.
type ChainResolver func(b *bot.Bot) *dispatch.Chain

// Handler: 웹훅 요청 처리기
type Handler struct {
	bots         *bot.Registry
	chains       ChainResolver
	options      dispatch.Options
	maxBodyBytes int64
	checks       []health.Check
	logger       *slog.Logger
}

// Config: Handler 구성 요소
type Config struct {
	Bots         *bot.Registry
	Chains       ChainResolver
	Options      dispatch.Options
	MaxBodyBytes int64
	HealthChecks []health.Check
	Logger       *slog.Logger
}

// NewHandler: Handler 를 생성한다.
func NewHandler(cfg Config) *Handler {
	if cfg.Bots == nil || cfg.Chains == nil {
		panic("webhook: bots and chains are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		bots:         cfg.Bots,
		chains:       cfg.Chains,
		options:      cfg.Options,
		maxBodyBytes: maxBody,
		checks:       cfg.HealthChecks,
		logger:       logger,
	}
}

// RegisterRoutes: 라우트를 등록한다.
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET(healthPath, h.handleHealth)
	router.POST(webhookPath, h.handleUpdate)
}

func (h *Handler) handleHealth(c *gin.Context) {
	resp := health.Get(c.Request.Context(), h.checks...)
	status := http.StatusOK
	if !resp.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *Handler) handleUpdate(c *gin.Context) {
	botID := c.Param("bot")
	ctx := logging.WithBot(c.Request.Context(), botID)
	c.Request = c.Request.WithContext(ctx)

	b, ok := h.bots.ByID(botID)
	var chain *dispatch.Chain
	if ok {
		chain = h.chains(b)
	}
	if chain == nil {
		h.abort(c, http.StatusNotFound, "bot_not_found", cerrors.BotNotFoundError{BotID: botID})
		return
	}

	u, err := update.Decode(c.Request.Body, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, update.ErrTooLarge) {
			h.abort(c, http.StatusRequestEntityTooLarge, "update_too_large", cerrors.MalformedUpdateError{Err: err})
			return
		}
		h.abort(c, http.StatusBadRequest, "malformed_update", cerrors.MalformedUpdateError{Err: err})
		return
	}

	controller := dispatch.NewController(b, u, h.options)
	outcome, err := controller.Run(ctx, chain)
	if err != nil {
		h.abort(c, http.StatusInternalServerError, "dispatch_failed", err)
		return
	}

	h.logger.InfoContext(ctx, "update_dispatched",
		slog.String("payload_type", controller.PayloadType().String()),
		slog.String("state", outcome.State.String()),
		slog.String("invoked", outcome.Invoked),
		slog.String("halted_by", outcome.HaltedBy),
	)

	c.JSON(http.StatusOK, responseBody(outcome))
}

// responseBody: 액션이 응답 맵을 반환하면 그대로, 그 외(중단, nil, 기타 값)는 빈 객체.
func responseBody(outcome action.Outcome) any {
	if outcome.State == action.StateHalted {
		return gin.H{}
	}
	switch v := outcome.Value.(type) {
	case map[string]any:
		return v
	case gin.H:
		return v
	default:
		return gin.H{}
	}
}

func (h *Handler) abort(c *gin.Context, status int, code string, err error) {
	_ = c.Error(err)
	message := err.Error()
	if status >= http.StatusInternalServerError && !cerrors.IsExpectedRequestError(err) {
		message = http.StatusText(status)
	}

	var notFound cerrors.BotNotFoundError
	if errors.As(err, &notFound) {
		message = "unknown bot"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}
