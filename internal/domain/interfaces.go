package domain

import "context"

// MediaServer defines the operations the engine needs from a media server.
// Implementations must not retry internally; retry policy belongs to the
// scheduler.
//
//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/jellycord/jellycord/internal/domain MediaServer,PresenceChannel,Registry
type MediaServer interface {
	// Login authenticates against the server and stores the access token.
	// A second call while authenticated is a no-op. Failures are reported
	// as *AuthenticationError.
	Login(ctx context.Context) error

	// Logout invalidates the current token server-side. Safe to call when
	// already logged out.
	Logout(ctx context.Context) error

	// Sessions returns the sessions active within the given inactivity
	// window, in server order. Failures are reported as *SessionFetchError.
	Sessions(ctx context.Context, activeWithinSeconds int) ([]Session, error)

	// SystemInfo returns the server identity, used during registration only
	SystemInfo(ctx context.Context) (SystemInfo, error)

	// BaseURL returns the server root used to build artwork URLs
	BaseURL() string
}

// PresenceChannel defines the connection to the presence display transport
type PresenceChannel interface {
	// Connect establishes the transport. Calling it while already connected
	// logs and returns nil. After an unexpected transport closure the
	// channel schedules its own reconnect with a fixed delay.
	Connect(ctx context.Context) error

	// Disconnect clears any pending reconnect, best-effort clears the
	// displayed activity, and releases the transport. Idempotent.
	Disconnect() error

	// SetActivity pushes a payload to the display. A logged no-op when the
	// channel is not connected.
	SetActivity(p *PresencePayload) error

	// ClearActivity removes the displayed activity. A logged no-op when the
	// channel is not connected.
	ClearActivity() error

	// State returns the current connection state
	State() ConnectionState
}

// Registry is the read-only view of the server registry the engine consumes
// each polling cycle. Mutation goes through the registry collaborator, never
// through the engine.
type Registry interface {
	// Servers returns the ordered list of configured servers
	Servers() []ServerConfig

	// SelectedServer returns the currently selected server, if any
	SelectedServer() (ServerConfig, bool)

	// DisplayEnabled reports whether presence display is enabled. Read
	// fresh every cycle.
	DisplayEnabled() bool

	// ExternalButtonsEnabled reports whether external link buttons should
	// be attached to payloads
	ExternalButtonsEnabled() bool

	// DeviceID returns the stable per-installation device identifier
	DeviceID() string
}
