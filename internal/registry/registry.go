// Package registry persists the configured media servers and display
// settings. The store is encrypted at rest and written atomically; an
// fsnotify watch picks up edits made by out-of-process collaborators (tray
// or configuration UI) while the daemon runs.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/jellycord/jellycord/internal/domain"
	"go.uber.org/zap"
)

// state is the persisted document. Field names match the settings schema of
// the store consumed by the configuration UI.
type state struct {
	DeviceID        string                `json:"UUID"`
	DisplayEnabled  bool                  `json:"doDisplayStatus"`
	ExternalButtons bool                  `json:"showExternalButtons"`
	Servers         []domain.ServerConfig `json:"servers"`
}

// Registry is the on-disk server registry. All reads return snapshots; all
// mutations persist before returning.
type Registry struct {
	logger *zap.Logger
	path   string
	cipher *storeCipher

	mu sync.RWMutex
	st state

	watcher *fsnotify.Watcher
	changes chan struct{}
	closed  chan struct{}
}

// Open loads the registry at path, creating a fresh one (display enabled,
// new device id) when none exists. passphrase selects the key derivation;
// when empty, a generated key file next to the store is used instead.
func Open(path string, passphrase string, logger *zap.Logger) (*Registry, error) {
	cipher, err := newStoreCipher(path, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare store encryption: %w", err)
	}

	r := &Registry{
		logger:  logger,
		path:    path,
		cipher:  cipher,
		changes: make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}

	st, err := r.load()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		st = state{
			DeviceID:       uuid.NewString(),
			DisplayEnabled: true,
		}
		r.st = st
		if err := r.saveLocked(); err != nil {
			return nil, err
		}
		logger.Info("Created new server registry", zap.String("path", path))
	} else {
		r.st = st
		logger.Info("Loaded server registry",
			zap.String("path", path),
			zap.Int("servers", len(st.Servers)))
	}

	return r, nil
}

// Watch starts the file watch. Changes made by this process are filtered
// out; external edits reload the store and signal Changes.
func (r *Registry) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create store watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		watcher.Close() //nolint:errcheck
		return fmt.Errorf("failed to watch store directory: %w", err)
	}
	r.watcher = watcher

	go r.watchLoop()
	return nil
}

// Changes signals after the store was reloaded because of an external edit
func (r *Registry) Changes() <-chan struct{} {
	return r.changes
}

// Close stops the watcher
func (r *Registry) Close() error {
	close(r.closed)
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}

func (r *Registry) watchLoop() {
	base := filepath.Base(r.path)
	for {
		select {
		case <-r.closed:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			r.reload()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("Store watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the store and emits a change signal if the content
// actually differs, which also filters out this process's own writes.
func (r *Registry) reload() {
	st, err := r.load()
	if err != nil {
		r.logger.Warn("Failed to reload store after external change", zap.Error(err))
		return
	}

	r.mu.Lock()
	changed := !reflect.DeepEqual(r.st, st)
	if changed {
		r.st = st
	}
	r.mu.Unlock()

	if !changed {
		return
	}

	r.logger.Info("Server registry changed externally, reloaded")
	select {
	case r.changes <- struct{}{}:
	default:
	}
}

func (r *Registry) load() (state, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return state{}, err
	}
	plain, err := r.cipher.decrypt(data)
	if err != nil {
		return state{}, fmt.Errorf("failed to decrypt store: %w", err)
	}
	var st state
	if err := json.Unmarshal(plain, &st); err != nil {
		return state{}, fmt.Errorf("failed to parse store: %w", err)
	}
	return st, nil
}

// saveLocked persists the current state. Caller holds r.mu (or is the only
// reference during Open).
func (r *Registry) saveLocked() error {
	plain, err := json.Marshal(r.st)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	sealed, err := r.cipher.encrypt(plain)
	if err != nil {
		return fmt.Errorf("failed to encrypt store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := renameio.WriteFile(r.path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// Servers returns the ordered list of configured servers
func (r *Registry) Servers() []domain.ServerConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ServerConfig, len(r.st.Servers))
	copy(out, r.st.Servers)
	return out
}

// SelectedServer returns the currently selected server, if any
func (r *Registry) SelectedServer() (domain.ServerConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.st.Servers {
		if s.IsSelected {
			return s, true
		}
	}
	return domain.ServerConfig{}, false
}

// DisplayEnabled reports whether presence display is enabled
func (r *Registry) DisplayEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.st.DisplayEnabled
}

// ExternalButtonsEnabled reports whether external link buttons are enabled
func (r *Registry) ExternalButtonsEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.st.ExternalButtons
}

// DeviceID returns the stable per-installation device identifier
func (r *Registry) DeviceID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.st.DeviceID
}

// AddServer appends a server. A duplicate serverId is rejected before
// persisting. When selected is true any previous selection is cleared.
func (r *Registry) AddServer(server domain.ServerConfig, selected bool) error {
	if server.ServerID == "" {
		return &domain.ConfigurationError{Reason: "server id must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.st.Servers {
		if s.ServerID == server.ServerID {
			return &domain.ConfigurationError{Reason: "server already configured"}
		}
	}

	server.IsSelected = selected
	if selected {
		for i := range r.st.Servers {
			r.st.Servers[i].IsSelected = false
		}
	}
	r.st.Servers = append(r.st.Servers, server)
	return r.saveLocked()
}

// SelectServer marks the given server as selected and deselects the rest
func (r *Registry) SelectServer(serverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := false
	for i := range r.st.Servers {
		isTarget := r.st.Servers[i].ServerID == serverID
		r.st.Servers[i].IsSelected = isTarget
		found = found || isTarget
	}
	if !found {
		return &domain.ConfigurationError{Reason: "unknown server id"}
	}
	return r.saveLocked()
}

// RemoveServer deletes a server and reports whether it was the selected one
func (r *Registry) RemoveServer(serverID string) (wasSelected bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.st.Servers[:0]
	found := false
	for _, s := range r.st.Servers {
		if s.ServerID == serverID {
			found = true
			wasSelected = s.IsSelected
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return false, &domain.ConfigurationError{Reason: "unknown server id"}
	}
	r.st.Servers = kept
	return wasSelected, r.saveLocked()
}

// SetDisplayEnabled persists the display-enabled flag
func (r *Registry) SetDisplayEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.DisplayEnabled = enabled
	return r.saveLocked()
}

// SetExternalButtonsEnabled persists the external-buttons flag
func (r *Registry) SetExternalButtonsEnabled(enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st.ExternalButtons = enabled
	return r.saveLocked()
}

// ValidateCredentials rejects credentials with empty required fields before
// any network call. Password may be empty; servers do not require one.
func ValidateCredentials(server domain.ServerConfig) error {
	var missing []string
	if server.Address == "" {
		missing = append(missing, "address")
	}
	if server.Port == "" {
		missing = append(missing, "port")
	}
	if server.Protocol == "" {
		missing = append(missing, "protocol")
	}
	if server.Username == "" {
		missing = append(missing, "username")
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{
			Reason: "missing required fields: " + strings.Join(missing, ", "),
		}
	}
	return nil
}
