package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jellycord/jellycord/internal/agent"
	"github.com/jellycord/jellycord/internal/config"
	"github.com/jellycord/jellycord/internal/discord"
	"github.com/jellycord/jellycord/internal/domain"
	"github.com/jellycord/jellycord/internal/engine"
	"github.com/jellycord/jellycord/internal/jellyfin"
	"github.com/jellycord/jellycord/internal/registry"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// version is stamped at build time via -ldflags
var version = "dev"

// AppOptions assembles the daemon's dependency graph
var AppOptions = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	fx.Provide(
		loadConfig,
		newLogger,
		newRegistry,
		func(r *registry.Registry) domain.Registry { return r },
		newConnector,
		func(c *discord.Connector) domain.PresenceChannel { return c },
		newClientFactory,
		newScheduler,
		newAgent,
	),

	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// loadConfig reads the config file with a bootstrap logger; the configured
// logger cannot exist before the config does.
func loadConfig() (*config.Config, error) {
	bootstrap, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	defer bootstrap.Sync() //nolint:errcheck

	return config.Load(config.DefaultPath(), bootstrap)
}

// newLogger builds the daemon logger from the loaded configuration
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogPath != "" {
		zcfg.OutputPaths = []string{cfg.LogPath}
		zcfg.ErrorOutputPaths = []string{cfg.LogPath}
	}
	return zcfg.Build(zap.Fields(zap.String("app", config.AppName)))
}

func newRegistry(cfg *config.Config, logger *zap.Logger) (*registry.Registry, error) {
	return registry.Open(cfg.StorePath, os.Getenv("JELLYCORD_PASSPHRASE"), logger)
}

func newConnector(cfg *config.Config, logger *zap.Logger) *discord.Connector {
	factory := func() discord.Transport {
		return discord.NewSocketTransport(cfg.Discord.ClientID, logger)
	}
	return discord.NewConnector(factory, cfg.Discord.ReconnectDelay, logger)
}

// newClientFactory builds media server clients carrying this installation's
// device identity, so the daemon shows up as one stable device server-side.
func newClientFactory(cfg *config.Config, reg *registry.Registry, logger *zap.Logger) engine.ClientFactory {
	return func(server domain.ServerConfig) (domain.MediaServer, error) {
		device := jellyfin.DeviceInfo{
			Name:    config.AppName,
			ID:      reg.DeviceID(),
			Version: version,
			IconURL: cfg.Media.DeviceIconURL,
		}
		return jellyfin.NewClient(server, device, logger), nil
	}
}

func newScheduler(
	logger *zap.Logger,
	cfg *config.Config,
	reg domain.Registry,
	channel domain.PresenceChannel,
	newClient engine.ClientFactory,
) *engine.Scheduler {
	return engine.NewScheduler(logger, engine.OptionsFromConfig(cfg.Media), reg, channel, newClient)
}

func newAgent(
	logger *zap.Logger,
	reg *registry.Registry,
	scheduler *engine.Scheduler,
	channel domain.PresenceChannel,
	newClient engine.ClientFactory,
) *agent.Agent {
	return agent.New(logger, reg, scheduler, channel, newClient)
}

// registerHooks ties the agent and the store watcher to the fx lifecycle
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	reg *registry.Registry,
	channel domain.PresenceChannel,
	a *agent.Agent,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Presence daemon starting", zap.String("version", version))
			if err := reg.Watch(); err != nil {
				return err
			}
			return a.Run(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Presence daemon shutting down")
			if err := a.Shutdown(ctx); err != nil {
				logger.Warn("Sync shutdown reported an error", zap.Error(err))
			}
			if err := channel.Disconnect(); err != nil {
				logger.Warn("Channel teardown reported an error", zap.Error(err))
			}
			return reg.Close()
		},
	})
}
