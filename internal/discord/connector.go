package discord

import (
	"context"
	"sync"
	"time"

	"github.com/jellycord/jellycord/internal/domain"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// connectTimeout bounds a single dial+handshake attempt
const connectTimeout = 10 * time.Second

// TransportFactory produces a fresh transport per connection attempt
type TransportFactory func() Transport

// Connector owns the lifecycle of the presence channel connection. It holds
// the Disconnected/Connecting/Connected state machine and at most one
// pending reconnect timer; an unexpected transport closure schedules a
// reconnect after a fixed delay.
type Connector struct {
	logger       *zap.Logger
	newTransport TransportFactory
	retryDelay   time.Duration

	mu        sync.Mutex
	state     domain.ConnectionState
	transport Transport
	reconnect *time.Timer
	// gen is bumped by Disconnect so an in-flight connect attempt can tell
	// it has been overtaken and must not commit its transport
	gen uint64
}

// NewConnector creates a disconnected connector. retryDelay is the fixed
// interval between reconnect attempts.
func NewConnector(newTransport TransportFactory, retryDelay time.Duration, logger *zap.Logger) *Connector {
	return &Connector{
		logger:       logger,
		newTransport: newTransport,
		retryDelay:   retryDelay,
	}
}

// State returns the current connection state
func (c *Connector) State() domain.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect establishes the transport. Calling it while already connected (or
// while a connect is in flight) logs and returns nil. On failure the
// connector transitions back to Disconnected and arms the reconnect timer.
func (c *Connector) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case domain.Connected:
		c.mu.Unlock()
		c.logger.Warn("Attempted to connect presence channel while already connected")
		return nil
	case domain.Connecting:
		c.mu.Unlock()
		c.logger.Debug("Presence channel connect already in progress")
		return nil
	}
	c.state = domain.Connecting
	gen := c.gen
	t := c.newTransport()
	c.mu.Unlock()

	c.logger.Info("Connecting to presence display")

	if err := t.Open(ctx); err != nil {
		c.mu.Lock()
		if c.gen != gen {
			// Disconnect intervened; stay down, no retry
			c.mu.Unlock()
			c.logger.Debug("Connect attempt abandoned after disconnect", zap.Error(err))
			return nil
		}
		c.state = domain.Disconnected
		c.scheduleReconnectLocked()
		c.mu.Unlock()

		c.logger.Error("Failed to connect to presence display",
			zap.Error(err),
			zap.Duration("retryIn", c.retryDelay))
		return &domain.ChannelTransportError{Op: "connect", Err: err}
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		// Disconnect won the race; release the fresh transport instead of
		// resurrecting the connection behind the caller's back
		t.Close() //nolint:errcheck
		c.logger.Debug("Connect attempt abandoned after disconnect")
		return nil
	}
	c.transport = t
	c.state = domain.Connected
	c.mu.Unlock()

	c.logger.Info("Connected to presence display")

	go c.watch(t)
	return nil
}

// watch waits for the transport to end. Closures caused by Disconnect have
// already detached the transport and are ignored here.
func (c *Connector) watch(t Transport) {
	<-t.Done()

	c.mu.Lock()
	if c.transport != t {
		c.mu.Unlock()
		return
	}
	c.transport = nil
	c.state = domain.Disconnected
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	c.logger.Warn("Presence channel closed unexpectedly",
		zap.Duration("reconnectIn", c.retryDelay))
}

// scheduleReconnectLocked arms the reconnect timer. A pending timer
// suppresses scheduling a second one. Caller holds c.mu.
func (c *Connector) scheduleReconnectLocked() {
	if c.reconnect != nil {
		return
	}
	c.reconnect = time.AfterFunc(c.retryDelay, func() {
		c.mu.Lock()
		c.reconnect = nil
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		_ = c.Connect(ctx) // failure re-arms the timer
	})
}

// Disconnect clears any pending reconnect, best-effort clears the displayed
// activity, and releases the transport. Idempotent.
func (c *Connector) Disconnect() error {
	c.mu.Lock()
	c.gen++
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	t := c.transport
	c.transport = nil
	c.state = domain.Disconnected
	c.mu.Unlock()

	if t == nil {
		return nil
	}

	c.logger.Info("Disconnecting from presence display")

	// A failed clear is swallowed; the connection is going away regardless
	err := multierr.Append(t.ClearActivity(), t.Close())
	if err != nil {
		c.logger.Debug("Presence channel teardown reported errors", zap.Error(err))
	}
	return nil
}

// SetActivity pushes a payload to the display. A logged no-op when the
// channel is not connected.
func (c *Connector) SetActivity(p *domain.PresencePayload) error {
	t, ok := c.connected()
	if !ok {
		c.logger.Debug("Presence channel not connected, dropping activity update")
		return nil
	}
	return t.SetActivity(p)
}

// ClearActivity removes the displayed activity. A logged no-op when the
// channel is not connected.
func (c *Connector) ClearActivity() error {
	t, ok := c.connected()
	if !ok {
		c.logger.Debug("Presence channel not connected, nothing to clear")
		return nil
	}
	return t.ClearActivity()
}

func (c *Connector) connected() (Transport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.Connected || c.transport == nil {
		return nil, false
	}
	return c.transport, true
}
