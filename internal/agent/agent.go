// Package agent exposes the daemon's control operations: configuring and
// selecting media servers and toggling the display flags. It owns the
// restart choreography those operations imply.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/jellycord/jellycord/internal/domain"
	"github.com/jellycord/jellycord/internal/engine"
	"github.com/jellycord/jellycord/internal/registry"
	"go.uber.org/zap"
)

// syncController is the slice of the scheduler the agent drives
type syncController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Kick()
}

// serverStore is the slice of the registry the agent mutates
type serverStore interface {
	Servers() []domain.ServerConfig
	SelectedServer() (domain.ServerConfig, bool)
	AddServer(server domain.ServerConfig, selected bool) error
	SelectServer(serverID string) error
	RemoveServer(serverID string) (bool, error)
	SetDisplayEnabled(enabled bool) error
	SetExternalButtonsEnabled(enabled bool) error
	DisplayEnabled() bool
	Changes() <-chan struct{}
}

// Agent coordinates configuration changes with the running sync loop
type Agent struct {
	logger    *zap.Logger
	store     serverStore
	scheduler syncController
	channel   domain.PresenceChannel
	newClient engine.ClientFactory

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates the agent
func New(
	logger *zap.Logger,
	store serverStore,
	scheduler syncController,
	channel domain.PresenceChannel,
	newClient engine.ClientFactory,
) *Agent {
	return &Agent{
		logger:    logger,
		store:     store,
		scheduler: scheduler,
		channel:   channel,
		newClient: newClient,
		stop:      make(chan struct{}),
	}
}

// Run starts the sync loop and the store watcher. The watcher lives until
// Shutdown; ctx only bounds the initial start.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	go a.watchStore()
	return nil
}

// Shutdown stops the store watcher and the sync loop
func (a *Agent) Shutdown(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	return a.scheduler.Stop(ctx)
}

// watchStore restarts the sync loop when the store changes underneath the
// daemon, picking up a new selection or credentials.
func (a *Agent) watchStore() {
	for {
		select {
		case <-a.stop:
			return
		case <-a.store.Changes():
			a.logger.Info("Store changed, restarting presence sync")
			if !a.store.DisplayEnabled() {
				if err := a.channel.ClearActivity(); err != nil {
					a.logger.Warn("Failed to clear presence", zap.Error(err))
				}
			}
			if err := a.restart(context.Background()); err != nil {
				a.logger.Error("Failed to restart presence sync", zap.Error(err))
			}
		}
	}
}

// ConfigureServer validates credentials against the live server and stores
// them. The first configured server becomes the selected one; a selected
// addition restarts the sync loop against it.
func (a *Agent) ConfigureServer(ctx context.Context, server domain.ServerConfig) (domain.ServerConfig, error) {
	if err := registry.ValidateCredentials(server); err != nil {
		return domain.ServerConfig{}, err
	}

	client, err := a.newClient(server)
	if err != nil {
		return domain.ServerConfig{}, err
	}
	if err := client.Login(ctx); err != nil {
		return domain.ServerConfig{}, err
	}
	info, err := client.SystemInfo(ctx)
	if err != nil {
		return domain.ServerConfig{}, fmt.Errorf("failed to identify server: %w", err)
	}
	// The probe session served its purpose
	if err := client.Logout(ctx); err != nil {
		a.logger.Debug("Failed to end probe session", zap.Error(err))
	}

	server.ServerID = info.ID
	server.ServerName = info.ServerName

	selected := len(a.store.Servers()) == 0
	if err := a.store.AddServer(server, selected); err != nil {
		return domain.ServerConfig{}, err
	}

	a.logger.Info("Configured media server",
		zap.String("server", server.ServerName),
		zap.Bool("selected", selected))

	if selected {
		if err := a.restart(ctx); err != nil {
			return server, err
		}
	}
	return server, nil
}

// SelectServer switches the active server and restarts the sync loop
func (a *Agent) SelectServer(ctx context.Context, serverID string) error {
	if err := a.store.SelectServer(serverID); err != nil {
		return err
	}
	a.logger.Info("Selected media server", zap.String("serverId", serverID))
	return a.restart(ctx)
}

// RemoveServer deletes a server. Removing the selected one stops the sync
// loop and clears the displayed presence.
func (a *Agent) RemoveServer(ctx context.Context, serverID string) error {
	wasSelected, err := a.store.RemoveServer(serverID)
	if err != nil {
		return err
	}
	a.logger.Info("Removed media server",
		zap.String("serverId", serverID),
		zap.Bool("wasSelected", wasSelected))

	if !wasSelected {
		return nil
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		return err
	}
	if err := a.channel.ClearActivity(); err != nil {
		a.logger.Warn("Failed to clear presence", zap.Error(err))
	}
	return nil
}

// SetDisplayEnabled toggles presence display. Disabling clears the shown
// activity immediately rather than waiting for the next poll.
func (a *Agent) SetDisplayEnabled(enabled bool) error {
	if err := a.store.SetDisplayEnabled(enabled); err != nil {
		return err
	}
	a.logger.Info("Display toggled", zap.Bool("enabled", enabled))

	if !enabled {
		if err := a.channel.ClearActivity(); err != nil {
			a.logger.Warn("Failed to clear presence", zap.Error(err))
		}
	}
	a.scheduler.Kick()
	return nil
}

// SetExternalButtonsEnabled toggles external link buttons on the presence
func (a *Agent) SetExternalButtonsEnabled(enabled bool) error {
	if err := a.store.SetExternalButtonsEnabled(enabled); err != nil {
		return err
	}
	a.logger.Info("External buttons toggled", zap.Bool("enabled", enabled))
	a.scheduler.Kick()
	return nil
}

func (a *Agent) restart(ctx context.Context) error {
	if err := a.scheduler.Stop(ctx); err != nil {
		return err
	}
	return a.scheduler.Start(ctx)
}
