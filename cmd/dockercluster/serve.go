package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GlintPay/dockercluster/api"
	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/backend/setup"
	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/health"
	"github.com/GlintPay/dockercluster/logging"
	"github.com/GlintPay/dockercluster/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve hosts, arguments, config maps and scripts over HTTP",
		Long: `Serve the cluster definition found in the configured backends. The
application config is read from $APP_CONFIG_FILE_YML_PATH (default application.yml).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	appConfig := config.ApplicationConfiguration{}
	if err := readConfig(envConfig.ApplicationConfigFileYmlPath, &appConfig); err != nil {
		return err
	}

	if appConfig.Logging.Level != "" {
		logging.Setup(os.Stdout, appConfig.Logging.Level)
	}

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	////////////////////////////////////////////

	backends, err := setup.Init(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("backend init failed: %w", err)
	}
	defer func() {
		for _, each := range backends {
			each.Close()
		}
	}()

	////////////////////////////////////////////

	traceShutdown, e := setupTracing(ctx, appConfig)
	if e != nil {
		return fmt.Errorf("trace setup failed: %w", e)
	}
	defer traceShutdown()

	router, err := setupRouter(appConfig, backends, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	setupHealthCheck(router, appConfig, backends)

	////////////////////////////////////////////

	if appConfig.Server.Port == 0 {
		appConfig.Server.Port = 80
	}
	port := fmt.Sprintf(":%d", appConfig.Server.Port)

	listener, err := net.Listen("tcp", port)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info().Msgf("Listening on %s", port)

	return runServer(ctx, &http.Server{Handler: router}, listener)
}

const shutdownTimeout = 10 * time.Second

// runServer serves until ctx is done, then drains in-flight requests
func runServer(ctx context.Context, srv *http.Server, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func readConfig(filePath string, config *config.ApplicationConfiguration) error {
	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		log.Info().Msgf("No config file found: %s", utils.FriendlyFileName(filePath))
		return nil
	}

	log.Debug().Msgf("Loading YAML config from %s", utils.FriendlyFileName(filePath))
	if err = yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	return nil
}

var emptyShutdown = func() {}

func setupTracing(ctx context.Context, config config.ApplicationConfiguration) (func(), error) {
	if !config.Tracing.Enabled {
		return emptyShutdown, nil
	}

	if config.Tracing.Endpoint == "" {
		return emptyShutdown, fmt.Errorf("missing tracing endpoint")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(config.Tracing.Endpoint),
	)
	if err != nil {
		return emptyShutdown, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.Tracing.SamplerFraction)),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	log.Info().Msgf("OpenTelemetry export is enabled, to: %s", config.Tracing.Endpoint)

	return func() {
		if err = tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error().Stack().Err(err).Msg("failed to shutdown TracerProvider")
		}
	}, nil
}

func setupRouter(config config.ApplicationConfiguration, backends backend.Backends, reg prometheus.Registerer) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)

	routing := api.Routing{
		ServerName:   serviceName,
		ParentRouter: router,

		Backends:  backends,
		AppConfig: config,
		Metrics:   api.NewMetrics(reg),
	}

	var routeErr error
	router.Route("/", func(r chi.Router) {
		routeErr = routing.SetupFunctionalRoutes(r)
	})
	if routeErr != nil {
		return nil, fmt.Errorf("route setup failed: %w", routeErr)
	}

	if len(config.Prometheus.Path) > 0 {
		log.Info().Msgf("Registering metrics endpoint at: %s", config.Prometheus.Path)
		router.Handle(config.Prometheus.Path, promhttp.Handler())
	}

	return router, nil
}

// The service is ready once some backend serves the definition
func setupHealthCheck(router *chi.Mux, config config.ApplicationConfiguration, backends backend.Backends) {
	definitionCheck := func() error {
		_, err := api.LoadStores(context.Background(), backends, api.LoadRequest{
			DefinitionFile: config.Defaults.DefinitionFileOrDefault(),
		})
		return err
	}

	healthChk := health.New(
		health.WithChiMux(router),
		health.WithReadinessCheck("definition", definitionCheck, 5*time.Second),
	)
	healthChk.StartListening()
}
