package app

import (
	"errors"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/bot"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/botan"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/bootstrap"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/httpclient"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/common/mq"
	"github.com/park285/llm-kakao-bots/potato-bot-go/internal/config"
)

// botanStack: 분석 추적 구성 결과
type botanStack struct {
	registry *botan.Registry
	// stub: 스텁 모드에서 기록된 요청
	stub  *botan.StubRequester
	tasks []bootstrap.BackgroundTask
}

// newBotanStack: 모드에 맞는 Requester 를 조립하고 토큰이 있는 봇마다 Client 를 만든다.
// async 모드는 mqClient 로 스트림 발행자와 전송 워커를 구성한다.
func newBotanStack(cfg config.BotanConfig, bots []bot.Bot, mqClient valkey.Client, logger *slog.Logger) (*botanStack, error) {
	stack := &botanStack{}
	if cfg.Mode == config.BotanOff || len(cfg.Tokens) == 0 {
		return stack, nil
	}

	var requester botan.Requester
	switch cfg.Mode {
	case config.BotanStub:
		stack.stub = &botan.StubRequester{}
		requester = stack.stub
	case config.BotanDebug:
		requester = botan.NewDebugRequester(newBotanHTTPRequester(cfg), logger)
	case config.BotanAsync:
		if mqClient == nil {
			return nil, errors.New("botan async mode requires a valkey client")
		}
		publisher := mq.NewStreamPublisher(mqClient, logger, mq.StreamPublisherConfig{
			Stream: cfg.Stream.StreamKey,
			MaxLen: cfg.Stream.StreamMaxLen,
		})
		consumer := mq.NewStreamConsumer(mqClient, logger, mq.StreamConsumerConfig{
			Stream:    cfg.Stream.StreamKey,
			Group:     cfg.Stream.ConsumerGroup,
			Name:      cfg.Stream.ConsumerName,
			BatchSize: cfg.Stream.BatchSize,
			Block:     cfg.Stream.BlockTimeout,
		})
		worker := botan.NewWorker(consumer, newBotanHTTPRequester(cfg), logger)
		stack.tasks = append(stack.tasks, bootstrap.BackgroundTask{
			Name:        "botan_worker",
			ErrorLogKey: "botan_worker_failed",
			Run:         worker.Run,
		})
		requester = botan.NewAsyncRequester(publisher, logger)
	default:
		requester = newBotanHTTPRequester(cfg)
	}

	clients := make([]*botan.Client, 0, len(cfg.Tokens))
	for _, b := range bots {
		token, ok := cfg.Tokens[b.ID]
		if !ok {
			continue
		}
		clients = append(clients, botan.NewClient(b.ID, token, requester, botan.WithTrackURI(cfg.TrackURI)))
	}
	stack.registry = botan.NewRegistry(clients...)
	return stack, nil
}

const botanUserAgent = "potato-bot/botan"

func newBotanHTTPRequester(cfg config.BotanConfig) *botan.HTTPRequester {
	return botan.NewHTTPRequester(httpclient.New(httpclient.Config{
		Name:           "botan",
		UserAgent:      botanUserAgent,
		Timeout:        cfg.Timeout,
		ConnectTimeout: cfg.Timeout,
	}))
}
