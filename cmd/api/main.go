package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"

	cartapp "github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	cartgrpc "github.com/dwikikusuma/shoping-pricing/internal/cart/grpc"
	cartadapter "github.com/dwikikusuma/shoping-pricing/internal/cart/infra/adapter"

	catalogapp "github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	cgrpc "github.com/dwikikusuma/shoping-pricing/internal/catalog/grpc"

	pricingapp "github.com/dwikikusuma/shoping-pricing/internal/pricing/app"
	pricingdomain "github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
	pricinggrpc "github.com/dwikikusuma/shoping-pricing/internal/pricing/grpc"

	"github.com/dwikikusuma/shoping-pricing/pkg/config"
	"github.com/dwikikusuma/shoping-pricing/pkg/events"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
	"github.com/dwikikusuma/shoping-pricing/pkg/metrics"
	"github.com/dwikikusuma/shoping-pricing/pkg/shutdown"
	"github.com/dwikikusuma/shoping-pricing/pkg/tracing"
)

var version = "dev"

func main() {
	cfg := config.Load()
	bindFlags(&cfg, pflag.CommandLine)
	pflag.Parse()

	log := logger.New(logger.Options{Service: "api", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := run(ctx, cancel, cfg, log); err != nil {
		log.Error("api stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func bindFlags(cfg *config.Config, fs *pflag.FlagSet) {
	fs.IntVar(&cfg.GRPCPort, "grpc-port", cfg.GRPCPort, "gRPC listen port")
	fs.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "Prometheus listen port, 0 disables")
	fs.StringVar(&cfg.ProductStore, "product-store", cfg.ProductStore, "product store: memory|postgres")
	fs.StringVar(&cfg.CartStore, "cart-store", cfg.CartStore, "cart store: memory|redis|postgres")
	fs.StringVar(&cfg.EventsDriver, "events", cfg.EventsDriver, "price event publisher: none|kafka|rabbitmq")
	fs.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "YAML catalog loaded at start")
}

func run(ctx context.Context, cancel context.CancelFunc, cfg config.Config, log *slog.Logger) error {
	rule, err := pricingdomain.ParseRule(cfg.PricingStep, cfg.PricingFloor, cfg.PricingCeiling)
	if err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, "api", version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}

	pub, err := events.Open(events.Options{
		Driver:       cfg.EventsDriver,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
	}, log)
	if err != nil {
		_ = st.Close(ctx)
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(reg)

	// Catalog
	catalogSvc := catalogapp.NewService(st.products)
	if cfg.SeedFile != "" {
		if err := seed(ctx, catalogSvc, cfg.SeedFile, log); err != nil {
			_ = pub.Close()
			_ = st.Close(ctx)
			return err
		}
	}

	// Pricing
	engine := pricingapp.New(st.products, rule,
		pricingapp.WithPublisher(pub),
		pricingapp.WithMetrics(pricingMetrics),
		pricingapp.WithLogger(log.With(slog.String("component", "pricing"))),
	)

	// Cart
	cartSvc := cartapp.NewService(st.carts, cartadapter.NewCatalogServiceReader(catalogSvc), engine,
		cartapp.WithLogger(log.With(slog.String("component", "cart"))),
	)

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(recoverInterceptor(log), logInterceptor(log)),
	)
	pricingv1.RegisterCatalogServiceServer(grpcServer, cgrpc.NewServer(catalogSvc))
	pricingv1.RegisterCartServiceServer(grpcServer, cartgrpc.NewServer(cartSvc, log))
	pricingv1.RegisterPricingServiceServer(grpcServer, pricinggrpc.NewServer(engine, catalogSvc, log))

	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler:           metrics.HandlerFor(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", addr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	if metricsServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("metrics starting", slog.String("addr", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", slog.Any("err", err))
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	stopGRPC := func(ctx context.Context) error {
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-ctx.Done():
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}
		return nil
	}
	stopMetrics := func(ctx context.Context) error {
		if metricsServer == nil {
			return nil
		}
		return metricsServer.Shutdown(ctx)
	}

	// Run stops in reverse: servers first, then publisher, stores, tracing.
	err = shutdown.Run(stopCtx,
		shutdownTracing,
		st.Close,
		func(context.Context) error { return pub.Close() },
		stopMetrics,
		stopGRPC,
	)
	wg.Wait()
	return err
}
