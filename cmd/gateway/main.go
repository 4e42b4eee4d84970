package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
	"github.com/dwikikusuma/shoping-pricing/pkg/config"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
	"github.com/dwikikusuma/shoping-pricing/pkg/metrics"
	"github.com/dwikikusuma/shoping-pricing/pkg/shutdown"
	"github.com/dwikikusuma/shoping-pricing/pkg/tracing"
)

var version = "dev"

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, "gateway", version, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracing init failed", slog.Any("err", err))
		os.Exit(1)
	}

	conn, err := grpc.NewClient(cfg.APIAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		log.Error("grpc client failed", slog.Any("err", err), slog.String("addr", cfg.APIAddr))
		os.Exit(1)
	}

	h := &handlers{
		cart:    pricingv1.NewCartServiceClient(conn),
		catalog: pricingv1.NewCatalogServiceClient(conn),
		pricing: pricingv1.NewPricingServiceClient(conn),
		log:     log,
		timeout: 5 * time.Second,
	}
	ready := func() bool {
		s := conn.GetState()
		return s != connectivity.Shutdown && s != connectivity.TransientFailure
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h, metrics.NewServerMetrics(nil, "gateway"), ready),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("api", cfg.APIAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := shutdown.Run(shutdownCtx,
		shutdownTracing,
		func(context.Context) error { return conn.Close() },
		server.Shutdown,
	); err != nil {
		log.Error("shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
