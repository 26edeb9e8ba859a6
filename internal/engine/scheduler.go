// Package engine drives the poll/translate/push cycle that keeps the
// presence display in sync with the selected media server.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellycord/jellycord/internal/config"
	"github.com/jellycord/jellycord/internal/domain"
	"github.com/jellycord/jellycord/internal/presence"
	"go.uber.org/zap"
)

// ClientFactory builds a media server client for the given credentials
type ClientFactory func(server domain.ServerConfig) (domain.MediaServer, error)

// Options holds the scheduler timing knobs
type Options struct {
	PollInterval      time.Duration
	LoginRetryDelay   time.Duration
	SessionInactivity time.Duration
	EndOfMediaBuffer  time.Duration
}

// OptionsFromConfig maps the media server configuration onto scheduler options
func OptionsFromConfig(cfg config.MediaServerConfig) Options {
	return Options{
		PollInterval:      cfg.PollInterval,
		LoginRetryDelay:   cfg.LoginRetryDelay,
		SessionInactivity: cfg.SessionInactivity,
		EndOfMediaBuffer:  cfg.EndOfMediaBuffer,
	}
}

// Scheduler owns the single polling goroutine. One timer carries the
// authoritative next wake-up: the base poll interval, shortened when the
// playing item would end sooner. Kick requests collapse into at most one
// pending immediate pass, so updates never overlap.
type Scheduler struct {
	logger    *zap.Logger
	opts      Options
	registry  domain.Registry
	channel   domain.PresenceChannel
	newClient ClientFactory
	now       func() time.Time

	kick chan struct{}

	mu     sync.Mutex
	client domain.MediaServer
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler
func NewScheduler(
	logger *zap.Logger,
	opts Options,
	registry domain.Registry,
	channel domain.PresenceChannel,
	newClient ClientFactory,
) *Scheduler {
	return &Scheduler{
		logger:    logger,
		opts:      opts,
		registry:  registry,
		channel:   channel,
		newClient: newClient,
		now:       time.Now,
		kick:      make(chan struct{}, 1),
	}
}

// Start connects the presence channel and launches the polling loop for the
// selected server. Without a selected server it logs and stays idle; a later
// Start (after configuration) picks it up. A running loop is replaced.
func (s *Scheduler) Start(ctx context.Context) error {
	server, ok := s.registry.SelectedServer()
	if !ok {
		s.logger.Warn("No media server selected, presence sync idle")
		return nil
	}

	s.stopLoop()

	client, err := s.newClient(server)
	if err != nil {
		return err
	}

	// Reset the channel so a stale connection from a previous run is gone
	if err := s.channel.Disconnect(); err != nil {
		s.logger.Debug("Presence channel reset reported an error", zap.Error(err))
	}
	if err := s.channel.Connect(ctx); err != nil {
		// The channel retries on its own; polling proceeds regardless
		s.logger.Warn("Presence channel unavailable, will keep retrying", zap.Error(err))
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.client = client
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.logger.Info("Presence sync started",
		zap.String("server", server.ServerName),
		zap.Duration("pollInterval", s.opts.PollInterval))

	go s.run(loopCtx, client, done)
	return nil
}

// Stop halts the polling loop and ends the media server session
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopLoop()

	s.mu.Lock()
	client := s.client
	s.client = nil
	s.mu.Unlock()

	if client != nil {
		if err := client.Logout(ctx); err != nil {
			s.logger.Warn("Failed to end media server session", zap.Error(err))
		}
	}

	s.logger.Info("Presence sync stopped")
	return nil
}

// Kick requests an immediate update pass. Non-blocking; a pass already
// pending absorbs the request.
func (s *Scheduler) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Scheduler) stopLoop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Scheduler) run(ctx context.Context, client domain.MediaServer, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Presence sync loop panicked",
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	if !s.login(ctx, client) {
		return
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-s.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		next := s.update(ctx, client)
		timer.Reset(next)
	}
}

// login authenticates with unbounded retries. Returns false only when the
// loop context ends first.
func (s *Scheduler) login(ctx context.Context, client domain.MediaServer) bool {
	for {
		err := client.Login(ctx)
		if err == nil {
			s.logger.Info("Authenticated with media server")
			return true
		}
		s.logger.Error("Media server login failed",
			zap.Error(err),
			zap.Duration("retryIn", s.opts.LoginRetryDelay))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(s.opts.LoginRetryDelay):
		}
	}
}

// update performs one poll/translate/push pass and returns the delay until
// the next one.
func (s *Scheduler) update(ctx context.Context, client domain.MediaServer) time.Duration {
	base := s.opts.PollInterval

	if s.channel.State() != domain.Connected {
		s.logger.Debug("Presence channel not connected, skipping update")
		return base
	}

	if !s.registry.DisplayEnabled() {
		if err := s.channel.ClearActivity(); err != nil {
			s.logger.Warn("Failed to clear presence", zap.Error(err))
		}
		return base
	}

	activeWithin := int(s.opts.SessionInactivity / time.Second)
	sessions, err := client.Sessions(ctx, activeWithin)
	if err != nil {
		// Last pushed presence stays as is; next poll retries
		s.logger.Error("Failed to fetch sessions", zap.Error(err))
		return base
	}

	session, ok := s.matchSession(sessions)
	if !ok {
		s.logger.Debug("No active playback session")
		if err := s.channel.ClearActivity(); err != nil {
			s.logger.Warn("Failed to clear presence", zap.Error(err))
		}
		return base
	}

	s.logger.Debug("Matched playback session", zap.Any("session", session.Redacted()))

	now := s.now()
	payload := presence.BuildPayload(session, client.BaseURL(), s.registry.ExternalButtonsEnabled(), now)
	if payload == nil {
		if err := s.channel.ClearActivity(); err != nil {
			s.logger.Warn("Failed to clear presence", zap.Error(err))
		}
		return base
	}

	if err := s.channel.SetActivity(payload); err != nil {
		s.logger.Warn("Failed to push presence", zap.Error(err))
		return base
	}

	s.logger.Debug("Presence updated",
		zap.String("details", payload.Details),
		zap.String("state", payload.State))

	// Wake up just after the item ends so the presence flips promptly
	item := session.NowPlayingItem
	if !session.PlayState.IsPaused && item.RunTimeTicks > 0 {
		remainingTicks := item.RunTimeTicks - session.PlayState.PositionTicks
		if remainingTicks > 0 {
			remaining := time.Duration(remainingTicks)*100*time.Nanosecond + s.opts.EndOfMediaBuffer
			if remaining < base {
				return remaining
			}
		}
	}
	return base
}

// matchSession picks the first session owned by the configured user that is
// playing something. Usernames compare case-insensitively.
func (s *Scheduler) matchSession(sessions []domain.Session) (domain.Session, bool) {
	server, ok := s.registry.SelectedServer()
	if !ok {
		return domain.Session{}, false
	}
	for _, sess := range sessions {
		if sess.NowPlayingItem == nil {
			continue
		}
		if strings.EqualFold(sess.UserName, server.Username) {
			return sess, true
		}
	}
	return domain.Session{}, false
}
