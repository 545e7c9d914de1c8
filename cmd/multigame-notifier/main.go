package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/sonyflake"
	"go.uber.org/zap"

	"github.com/lzyats/multigame-notify-go/internal/config"
	"github.com/lzyats/multigame-notify-go/internal/db"
	"github.com/lzyats/multigame-notify-go/internal/logging"
	"github.com/lzyats/multigame-notify-go/internal/metrics"
	"github.com/lzyats/multigame-notify-go/pkg/dispatch"
	"github.com/lzyats/multigame-notify-go/pkg/notify"
	"github.com/lzyats/multigame-notify-go/pkg/registry"
	"github.com/lzyats/multigame-notify-go/pkg/runner"
	"github.com/lzyats/multigame-notify-go/pkg/sequence"
	redisstore "github.com/lzyats/multigame-notify-go/pkg/store/redis"
)

func main() {
	var cfgPaths string
	flag.StringVar(&cfgPaths, "c", "./config.yml", "config file path (supports: a.yml,b.yml)")
	flag.Parse()

	cfg, err := config.Load(cfgPaths)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("load config failed", zap.Error(err))
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("logger init failed", zap.Error(err))
	}
	defer closeLog()
	log = log.With(zap.String("env", cfg.Env))

	metrics.Register()
	go serveMetrics(cfg.Metrics.Addr, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, err := registry.FromSettings(cfg.Settings)
	if err != nil {
		log.Fatal("registry init failed", zap.Error(err))
	}

	if !notify.Enabled(cfg.Redis.Enabled) {
		log.Fatal("redis must be enabled: occurrences are consumed from a redis list")
	}
	store, err := redisstore.New(cfg.Redis)
	if err != nil {
		log.Fatal("redis init failed", zap.Error(err))
	}
	defer store.Close()

	var counter sequence.Counter
	switch cfg.Sequence.Backend {
	case notify.SequenceRedis:
		counter = store
	case notify.SequenceMySQL:
		sqlDB, err := db.Open(ctx, db.Options{
			DSN:          cfg.MySQL.DSN,
			MaxOpenConns: cfg.MySQL.MaxOpenConns,
			MaxIdleConns: cfg.MySQL.MaxIdleConns,
			ConnMaxLife:  cfg.MySQL.ConnMaxLife,
			ConnMaxIdle:  cfg.MySQL.ConnMaxIdle,
		})
		if err != nil {
			log.Fatal("mysql init failed", zap.Error(err))
		}
		defer sqlDB.Close()
		counter = sequence.NewMySQL(sqlDB)
	default:
		counter = sequence.NewMemory()
	}

	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		log.Fatal("sonyflake init failed")
	}

	d := dispatch.New(reg,
		dispatch.WithSettings(cfg.Settings),
		dispatch.WithLogger(log),
		dispatch.WithCounter(counter),
		dispatch.WithKeyGenerator(sf.NextID),
	)

	w := runner.NewWorker(store, d, runner.Options{
		QueueKey:  cfg.Redis.QueueKey,
		Block:     cfg.Worker.Block,
		OpTimeout: cfg.Worker.OpTimeout,
		Log:       log,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		log.Info("shutting down", zap.String("signal", s.String()))
		cancel()
	}()

	log.Info("multigame-notifier started",
		zap.String("broker", cfg.Broker.Kind),
		zap.String("factory", cfg.Broker.Factory),
		zap.String("topic", cfg.Broker.Topic),
		zap.String("sequence", cfg.Sequence.Backend),
	)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		log.Error("worker stopped", zap.Error(err))
	}
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
	}
	log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server error", zap.Error(err))
	}
}
