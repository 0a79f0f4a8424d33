package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/Anit-Biswas/Waste-management-website/internal/api"
	"github.com/Anit-Biswas/Waste-management-website/internal/config"
	db "github.com/Anit-Biswas/Waste-management-website/internal/db"
	kafka "github.com/Anit-Biswas/Waste-management-website/internal/external/kafka"
	rabbit "github.com/Anit-Biswas/Waste-management-website/internal/external/rabbitmq"
	interf "github.com/Anit-Biswas/Waste-management-website/internal/interfaces"
	services "github.com/Anit-Biswas/Waste-management-website/internal/services"
	tracer "github.com/Anit-Biswas/Waste-management-website/observability/otel"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// tracing
	if cfg.OtelEndpoint != "" {
		shutdown, err := tracer.InitTracer(ctx, cfg.OtelEndpoint, logger)
		if err != nil {
			logger.Error("tracer", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	// database
	kv, cleanup, err := db.Open(ctx, cfg, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()
	store := db.NewStore(kv, logger)

	if cfg.Seed {
		_, err = services.Seed(ctx, store, logger)
		if err != nil {
			panic(err)
		}
	}

	// events
	var publishers services.Publishers
	if cfg.Kafka != nil {
		k := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer k.Close()
		publishers = append(publishers, k)
	}
	if cfg.Rabbit != nil {
		r, err := rabbit.NewRabbitPublisher(cfg.Rabbit.URL)
		if err != nil {
			logger.Error("rabbitmq", zap.Error(err))
		} else {
			defer r.Close()
			publishers = append(publishers, r)
		}
	}
	var events interf.EventPublisher
	if len(publishers) > 0 {
		events = publishers
	}

	// services
	serv := services.NewWasteService(store, events, logger)

	// api handlers
	h := api.NewHandler(serv, api.NewSessions(), logger)
	srv := &http.Server{
		Handler:      otelhttp.NewHandler(h, "waste"),
		Addr:         ":" + cfg.Port,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listen", zap.String("addr", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// shutdown
	g.Go(func() error {
		<-gctx.Done()
		timeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(timeout)
	})

	err = g.Wait()
	if err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
