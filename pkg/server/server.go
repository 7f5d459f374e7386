package server

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/gitlumen/gitlumen/pkg/core"
	"github.com/gitlumen/gitlumen/pkg/dispatch"
	"github.com/gitlumen/gitlumen/pkg/plugin"
	"github.com/gitlumen/gitlumen/pkg/plugin/console"
	"github.com/gitlumen/gitlumen/pkg/plugin/teams"
	"github.com/gitlumen/gitlumen/pkg/provider"
	"github.com/gitlumen/gitlumen/pkg/provider/gitlab"
	"github.com/gitlumen/gitlumen/pkg/storage"
	"github.com/gitlumen/gitlumen/pkg/storage/eventlogs"
	"github.com/gitlumen/gitlumen/pkg/storage/pluginconfigs"
	"github.com/gitlumen/gitlumen/pkg/storage/providerconfigs"
)

// RunConfig loads config from a path and starts the server with signal handling.
func RunConfig(configPath string) error {
	logger := core.NewLogger("server")
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return Run(ctx, config, logger)
}

// NewRegistries builds the provider and plugin registries with every
// built-in type registered.
func NewRegistries() (*provider.Registry, *plugin.Registry, error) {
	providers := provider.NewRegistry()
	if err := gitlab.Register(providers); err != nil {
		return nil, nil, fmt.Errorf("register gitlab provider: %w", err)
	}
	plugins := plugin.NewRegistry()
	if err := teams.Register(plugins); err != nil {
		return nil, nil, fmt.Errorf("register teams plugin: %w", err)
	}
	if err := console.Register(plugins); err != nil {
		return nil, nil, fmt.Errorf("register console plugin: %w", err)
	}
	return providers, plugins, nil
}

// Run starts the server until the context is canceled.
func Run(ctx context.Context, config core.AppConfig, logger *log.Logger) error {
	providers, plugins, err := NewRegistries()
	if err != nil {
		return err
	}

	var (
		providerStore storage.ProviderStore
		pluginStore   storage.PluginStore
		logStore      storage.EventLogStore
	)
	if config.Storage.Driver != "" && config.Storage.DSN != "" {
		pcStore, err := providerconfigs.Open(providerconfigs.Config{
			Driver:      config.Storage.Driver,
			DSN:         config.Storage.DSN,
			Dialect:     config.Storage.Dialect,
			AutoMigrate: config.Storage.AutoMigrate,
		})
		if err != nil {
			return fmt.Errorf("provider configs storage: %w", err)
		}
		defer pcStore.Close()
		providerStore = pcStore
		logger.Printf("provider configs enabled driver=%s dialect=%s table=gitlumen_provider_configs", config.Storage.Driver, config.Storage.Dialect)

		plStore, err := pluginconfigs.Open(pluginconfigs.Config{
			Driver:      config.Storage.Driver,
			DSN:         config.Storage.DSN,
			Dialect:     config.Storage.Dialect,
			AutoMigrate: config.Storage.AutoMigrate,
		})
		if err != nil {
			return fmt.Errorf("plugin configs storage: %w", err)
		}
		defer plStore.Close()
		pluginStore = plStore
		logger.Printf("plugin configs enabled driver=%s dialect=%s table=gitlumen_plugin_configs", config.Storage.Driver, config.Storage.Dialect)

		elStore, err := eventlogs.Open(eventlogs.Config{
			Driver:      config.Storage.Driver,
			DSN:         config.Storage.DSN,
			Dialect:     config.Storage.Dialect,
			AutoMigrate: config.Storage.AutoMigrate,
		})
		if err != nil {
			return fmt.Errorf("event logs storage: %w", err)
		}
		defer elStore.Close()
		logStore = elStore
		logger.Printf("event logs enabled driver=%s dialect=%s table=gitlumen_event_logs", config.Storage.Driver, config.Storage.Dialect)
	} else {
		providerStore = storage.NewStaticProviderStore(config.Providers)
		pluginStore = storage.NewStaticPluginStore(config.Plugins)
		logger.Printf("storage disabled (missing storage.driver or storage.dsn), serving from config providers=%d plugins=%d", len(config.Providers), len(config.Plugins))
	}

	processor := &dispatch.Processor{
		Plugins:  pluginStore,
		Registry: plugins,
		Logs:     logStore,
		Logger:   core.NewLogger("dispatch"),
	}

	mux := http.NewServeMux()
	mux.Handle("/webhooks/", &WebhookHandler{
		Providers:   providers,
		Store:       providerStore,
		Processor:   processor,
		Logger:      core.NewLogger("webhook"),
		MaxBody:     config.Server.MaxBodyBytes,
		DebugEvents: config.Server.DebugEvents,
	})
	mux.Handle("/healthz", healthHandler(providers, plugins))
	mux.Handle("/debug/vars", expvar.Handler())
	logger.Printf("webhook endpoint=/webhooks/{provider}/{project} providers=%v plugins=%v", providers.Types(), plugins.Types())

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowOriginFunc: func(_ string) bool { return true },
		AllowedHeaders:  []string{"*"},
		MaxAge:          int(2 * time.Hour / time.Second),
	})
	handler := chain(mux, requestLogMiddleware(logger))
	handler = h2c.NewHandler(corsHandler.Handler(handler), &http2.Server{})

	addr := ":" + strconv.Itoa(config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(config.Server.ReadTimeoutMS) * time.Millisecond,
		WriteTimeout:      time.Duration(config.Server.WriteTimeoutMS) * time.Millisecond,
		IdleTimeout:       time.Duration(config.Server.IdleTimeoutMS) * time.Millisecond,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderMS) * time.Millisecond,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	}
}
