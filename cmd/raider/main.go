// Raider — daemon ревизитации точек интереса.
//
// Raider:
//   - Загружает forts из Postgres внутри настроенной границы
//   - Держит приоритетную очередь по протуханию
//   - Раздаёт визиты пулу workers (ближайший свободный)
//   - Экспортирует /metrics, /healthz и read-only status API
//
// RabbitMQ опционален: события визитов публикуются, новые forts
// принимаются через forts.discovered.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Raider/internal/api"
	"github.com/shaiso/Raider/internal/dispatch"
	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
	"github.com/shaiso/Raider/internal/mq"
	"github.com/shaiso/Raider/internal/preload"
	"github.com/shaiso/Raider/internal/queue"
	"github.com/shaiso/Raider/internal/repo"
	"github.com/shaiso/Raider/internal/telemetry"
	"github.com/shaiso/Raider/internal/visitor"
	"github.com/shaiso/Raider/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting raider")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Граница области сканирования
	bounds := geo.Bounds{
		North: envFloat("RAIDER_BOUNDS_NORTH", 90),
		South: envFloat("RAIDER_BOUNDS_SOUTH", -90),
		East:  envFloat("RAIDER_BOUNDS_EAST", 180),
		West:  envFloat("RAIDER_BOUNDS_WEST", -180),
	}
	if err := bounds.Validate(); err != nil {
		logger.Error("invalid bounds", "error", err)
		os.Exit(1)
	}

	visitorURL := os.Getenv("RAIDER_VISITOR_URL")
	if visitorURL == "" {
		logger.Error("RAIDER_VISITOR_URL is required")
		os.Exit(1)
	}

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	fortRepo := repo.NewFortRepo(pool)

	// Workers: фиксированный пул, стартуют из центра границы
	workersNeeded := envInt("RAIDER_WORKERS", 6)
	visit := visitor.NewHTTP(visitorURL)

	workers := make([]*worker.Worker, workersNeeded)
	for i := range workers {
		workers[i] = worker.New(i, bounds.Center(), visit, nil)
	}
	registry := worker.NewRegistry(workers)
	logger.Info("workers initialized", "count", workersNeeded)

	searchSleep := time.Duration(envFloat("RAIDER_SEARCH_SLEEP", 1) * float64(time.Second))

	selector := worker.NewSelector(worker.SelectorConfig{
		Registry:    registry,
		Logger:      logger,
		SearchSleep: searchSleep,
		SpeedLimit:  envFloat("RAIDER_SPEED_LIMIT", 19.5),
	})

	// RabbitMQ (опционально)
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err = mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running standalone", "error", err)
		mqConn = nil
	} else {
		defer mqConn.Close()

		if err := mq.SetupTopology(mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Очередь и dispatcher
	jobQueue := queue.New()
	dispatcher := dispatch.New(dispatch.Config{
		Queue:       jobQueue,
		Registry:    registry,
		Selector:    selector,
		Publisher:   publisher,
		Logger:      logger,
		SearchSleep: searchSleep,
	})

	// Preload fort'ов
	preloader := preload.New(preload.Config{
		Source: fortRepo,
		Sink:   dispatcher,
		Bounds: bounds,
		Logger: logger,
	})
	if _, err := preloader.Preload(ctx); err != nil {
		logger.Error("preload failed", "error", err)
		os.Exit(1)
	}

	// Dispatch loop
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		dispatcher.Run(ctx)
	}()

	// Периодический resync новых fort'ов
	if cronExpr := env("RAIDER_RESYNC_CRON", "*/30 * * * *"); cronExpr != "off" {
		go func() {
			if err := preloader.RunResync(ctx, cronExpr); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("fort resync stopped", "error", err)
			}
		}()
	}

	// Consumer forts.discovered: внешние сканеры добавляют jobs на лету
	if mqConn != nil {
		consumer := mq.NewConsumer(mqConn, logger, mq.ConsumerConfig{
			Queue:   mq.QueueFortsDiscovered,
			Handler: fortDiscoveredHandler(preloader, logger),
		})
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("fort consumer error", "error", err)
			}
		}()
	}

	// HTTP mux: /healthz + /metrics + status API
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	api.NewHandler(dispatcher, registry, jobQueue, logger).RegisterRoutes(mux)

	port := ":8080"
	if v := os.Getenv("RAIDER_API_PORT"); v != "" {
		port = ":" + v
	}

	server := &http.Server{Addr: port, Handler: mux}
	go func() {
		logger.Info("listening", "addr", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// In-flight попытки дорабатывают свой requeue/release
	<-dispatchDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)

	logger.Info("raider stopped")
}

// fortDiscoveredHandler добавляет в очередь forts, найденные внешними
// сканерами во время работы.
func fortDiscoveredHandler(preloader *preload.Preloader, logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, msg *mq.Message) error {
		if msg.Type != mq.MessageTypeFortDiscovered {
			return nil
		}

		payload, err := mq.ParsePayload[mq.FortDiscoveredPayload](msg)
		if err != nil {
			return err
		}

		added := preloader.Add(domain.Job{
			ID:           payload.ID,
			ExternalID:   payload.ExternalID,
			Lat:          payload.Lat,
			Lon:          payload.Lon,
			Name:         payload.Name,
			URL:          payload.URL,
			LastModified: payload.LastModified,
			Updated:      payload.Updated,
		})
		if added {
			logger.Info("fort discovered", "fort_id", payload.ID, "external_id", payload.ExternalID)
		}
		return nil
	}
}

// --- env helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
