package di

import (
	"fmt"
	"time"

	"PairSight/internal/domain/repository"
	"PairSight/internal/handler/api"
	icache "PairSight/internal/service/cache"
	"PairSight/internal/service/ratelimit"
	"PairSight/internal/service/stream"
	"PairSight/internal/service/telegram"
	"PairSight/internal/service/twelvedata"
	"PairSight/internal/services/gates"
	"PairSight/internal/services/strategy"
	"PairSight/internal/usecase"
	pkgcache "PairSight/pkg/cache"
	"PairSight/pkg/config"
	xhttp "PairSight/pkg/http"
	pkgkafka "PairSight/pkg/kafka"
	applogger "PairSight/pkg/logger"
	"PairSight/pkg/metrics"
	"PairSight/pkg/server"
)

// ProvideLogger creates the application logger. Production runs JSON to
// stdout; everything else gets the console writer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{Level: "debug", Format: "console", Output: "stdout"}
	if cfg.Environment == "production" {
		lc.Level = "info"
		lc.Format = "json"
	}
	return applogger.New(lc)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheStore creates the cache backend, or nil when caching is off.
func ProvideCacheStore(cfg *config.Config, log *applogger.Logger) (pkgcache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Redis.Enabled {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		log.Info("redis cache enabled", applogger.String("addr", cfg.Cache.Redis.Addr))
		return rc, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideCandleSource creates the market data source, wrapped in a
// read-through series cache when one is configured.
func ProvideCandleSource(cfg *config.Config, store pkgcache.Service, log *applogger.Logger) repository.CandleSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.TwelveData.Timeout))
	source := twelvedata.New(cfg.TwelveData.APIKey, cfg.TwelveData.BaseURL, cfg.TwelveData.OutputSize, client)
	if store == nil {
		return source
	}
	return icache.NewSeriesCache(source, store, cfg.Cache.TTL, log)
}

// ProvideNotifier creates the Telegram notifier.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) repository.Notifier {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Telegram.Timeout))
	return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, client, log)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured. Streaming is an optional leg.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher wraps the producer for signal events, or nil.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil {
		return nil
	}
	return stream.NewSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideGates builds the session and news gate evaluator from config.
func ProvideGates(cfg *config.Config) (*gates.Evaluator, error) {
	sessions := make([]gates.HourWindow, 0, len(cfg.Engine.Sessions))
	for _, s := range cfg.Engine.Sessions {
		sessions = append(sessions, gates.HourWindow{FromHour: s.FromHour, ToHour: s.ToHour})
	}
	news := make([]gates.ClockWindow, 0, len(cfg.Engine.NewsWindows))
	for _, w := range cfg.Engine.NewsWindows {
		cw, err := gates.ParseClockWindow(w.From, w.To)
		if err != nil {
			return nil, fmt.Errorf("news window: %w", err)
		}
		news = append(news, cw)
	}
	return gates.New(sessions, news), nil
}

// ProvideClassifier creates the decision-table classifier.
func ProvideClassifier(cfg *config.Config) *strategy.Classifier {
	return strategy.NewClassifier(cfg.Engine.FlatEps)
}

// ProvideLimiter creates the outbound call limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideClock supplies wall-clock time.
func ProvideClock() repository.Clock {
	return time.Now
}

// ProvideEvaluator wires the evaluation engine.
func ProvideEvaluator(
	source repository.CandleSource,
	classifier *strategy.Classifier,
	gateEval *gates.Evaluator,
	limiter *ratelimit.Limiter,
	m repository.Metrics,
	log *applogger.Logger,
	clock repository.Clock,
	cfg *config.Config,
) *usecase.Evaluator {
	return usecase.NewEvaluator(source, classifier, gateEval, limiter, m, log, clock, usecase.EvaluatorConfig{
		EMAFast:      cfg.Engine.EMAFast,
		EMASlow:      cfg.Engine.EMASlow,
		RSIPeriod:    cfg.Engine.RSIPeriod,
		OutputSize:   cfg.TwelveData.OutputSize,
		GatesEnabled: cfg.Engine.GatesEnabled,
		FetchTimeout: cfg.TwelveData.Timeout,
		MaxRPS:       cfg.TwelveData.MaxRPS,
		Burst:        cfg.TwelveData.Burst,
	})
}

// ProvideDispatcher wires the alert/stream fan-out.
func ProvideDispatcher(
	notifier repository.Notifier,
	publisher repository.SignalPublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.AlertDispatcher {
	return usecase.NewAlertDispatcher(notifier, publisher, m, log)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(log *applogger.Logger, eval *usecase.Evaluator, dispatcher *usecase.AlertDispatcher) xhttp.Handler {
	return api.NewAnalyzeEchoHandler(log, eval, dispatcher)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	store pkgcache.Service,
	publisher repository.SignalPublisher,
) *server.App {
	return server.New(cfg, log, handler, store, publisher)
}
