package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"outcome-book/internal/api"
	"outcome-book/internal/config"
	"outcome-book/internal/engine"
	"outcome-book/internal/messaging"
	"outcome-book/internal/metrics"
	"outcome-book/internal/models"
	"outcome-book/internal/replay"
)

func main() {
	cfg := config.Load()

	level, err := log.ToLevel(cfg.LogLevel)
	if err != nil {
		level, _ = log.ToLevel("info")
	}
	logger := log.NewTestLogger(level)

	if err := run(cfg, logger); err != nil {
		logger.Error("matcher failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(cfg.MetricsNamespace, reg)

	eng := engine.NewMatchingEngine(
		engine.WithLogger(logger.New("module", "engine")),
		engine.WithStartOrderID(models.OrderID(cfg.StartOrderID)),
	)

	services := map[string]string{}

	var dispatcher *messaging.Dispatcher
	if cfg.PublishingEnabled() {
		publisher, err := messaging.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger.New("module", "publisher"))
		if err != nil {
			logger.Warn("RabbitMQ publisher not available", "error", err)
			services["rabbitmq"] = "unavailable"
		} else {
			defer publisher.Close()
			logger.Info("RabbitMQ publisher connected", "exchange", cfg.RabbitMQExchange)
			services["rabbitmq"] = "healthy"

			dispatcher = messaging.NewDispatcher(publisher, cfg.EventBuffer, logger.New("module", "dispatcher"))
			dispatcher.Start()
			defer func() {
				dispatcher.Stop()
				if n := dispatcher.Dropped(); n > 0 {
					logger.Warn("events dropped", "count", n)
				}
			}()
		}
	}

	eng.SetTradeCallback(func(_ models.BookKey, trade models.Trade) {
		appMetrics.RecordTrade(trade)
		if dispatcher != nil {
			dispatcher.Enqueue(messaging.TradeExecuted(trade))
		}
	}).SetOrderCallback(func(_ models.BookKey, order models.Order) {
		if dispatcher != nil {
			dispatcher.Enqueue(messaging.OrderUpdated(order))
		}
	})

	if cfg.MetricsEnabled() {
		srv := newOpsServer(cfg.MetricsAddr, eng, reg, appMetrics, services, logger)
		go func() {
			logger.Info("ops server listening", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ops server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("ops server shutdown", "error", err)
			}
		}()
	}

	in, closeInput, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	defer closeInput()

	reporter, err := replay.NewReporter(cfg.OutputFormat, os.Stdout)
	if err != nil {
		return err
	}

	runner := replay.NewRunner(eng, reporter, appMetrics, logger.New("module", "replay"))
	sum, err := runner.Run(ctx, in)
	if err != nil {
		return err
	}

	logger.Info("replay finished",
		"lines", sum.Lines,
		"accepted", sum.Accepted,
		"invalid", sum.Invalid,
		"rejected", sum.Rejected,
		"trades", sum.Trades,
		"books", eng.BookCount(),
	)
	return nil
}

func newOpsServer(addr string, eng *engine.MatchingEngine, reg *prometheus.Registry, m *metrics.Metrics, services map[string]string, logger log.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	api.RegisterRoutes(router, eng, reg, m, func() map[string]string { return services }, logger.New("module", "api"))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
