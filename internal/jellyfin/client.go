// Package jellyfin is a thin HTTP client for the media server API. It never
// retries on its own; retry policy lives in the scheduler.
package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jellycord/jellycord/internal/domain"
	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second // Essential to prevent blocking the daemon

// DeviceInfo identifies this installation to the media server
type DeviceInfo struct {
	Name    string
	ID      string
	Version string
	// IconURL, when set, is registered as the device icon after login
	IconURL string
}

// Client talks to one media server on behalf of one account
type Client struct {
	logger *zap.Logger
	client *http.Client
	server domain.ServerConfig
	device DeviceInfo
	base   string

	mu          sync.Mutex
	accessToken string
	userID      string
}

// NewClient creates a client for the given server credentials and device
// identity. No network traffic happens until Login.
func NewClient(server domain.ServerConfig, device DeviceInfo, logger *zap.Logger) *Client {
	return &Client{
		logger: logger,
		client: &http.Client{Timeout: requestTimeout},
		server: server,
		device: device,
		base:   server.BaseURL(),
	}
}

// BaseURL returns the server root used to build artwork URLs
func (c *Client) BaseURL() string {
	return c.base
}

// IsAuthenticated reports whether a login has succeeded
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

type authenticateRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

type authenticateResponse struct {
	AccessToken string `json:"AccessToken"`
	User        struct {
		ID string `json:"Id"`
	} `json:"User"`
}

// Login authenticates by name and stores the access token and user id.
// Calling it while already authenticated is a no-op. Any failure is reported
// as a *domain.AuthenticationError.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	if c.accessToken != "" {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.logger.Debug("Authenticating against media server",
		zap.Any("server", c.server.Redacted()))

	body, err := json.Marshal(authenticateRequest{
		Username: c.server.Username,
		Pw:       c.server.Password,
	})
	if err != nil {
		return &domain.AuthenticationError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/Users/AuthenticateByName", bytes.NewReader(body))
	if err != nil {
		return &domain.AuthenticationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf(
		"Emby Client=Other, Device=%s, DeviceId=%s, Version=%s",
		c.device.Name, c.device.ID, c.device.Version))

	var auth authenticateResponse
	if err := c.do(req, http.StatusOK, &auth); err != nil {
		return &domain.AuthenticationError{Err: err}
	}

	c.mu.Lock()
	c.accessToken = auth.AccessToken
	c.userID = auth.User.ID
	c.mu.Unlock()

	if c.device.IconURL != "" {
		if err := c.setDeviceCapabilities(ctx); err != nil {
			return &domain.AuthenticationError{Err: fmt.Errorf("failed to set device icon: %w", err)}
		}
	}

	c.logger.Debug("Authenticated against media server", zap.String("userId", auth.User.ID))
	return nil
}

// Logout invalidates the current token server-side. The local token is
// cleared even when the server call fails. Safe to call when already logged
// out.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	c.userID = ""
	c.mu.Unlock()

	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/Sessions/Logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return nil
}

// Sessions returns the sessions active within the given inactivity window,
// in server order. Failures are reported as *domain.SessionFetchError.
func (c *Client) Sessions(ctx context.Context, activeWithinSeconds int) ([]domain.Session, error) {
	url := c.base + "/Sessions"
	if activeWithinSeconds > 0 {
		url = fmt.Sprintf("%s?ActiveWithinSeconds=%d", url, activeWithinSeconds)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.SessionFetchError{Err: err}
	}

	var sessions []domain.Session
	if err := c.do(req, http.StatusOK, &sessions); err != nil {
		return nil, &domain.SessionFetchError{Err: err}
	}
	return sessions, nil
}

// SystemInfo returns the server identity. Used during registration only.
func (c *Client) SystemInfo(ctx context.Context) (domain.SystemInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/System/Info", nil)
	if err != nil {
		return domain.SystemInfo{}, fmt.Errorf("failed to create request: %w", err)
	}

	var info domain.SystemInfo
	if err := c.do(req, http.StatusOK, &info); err != nil {
		return domain.SystemInfo{}, fmt.Errorf("failed to fetch system info: %w", err)
	}
	return info, nil
}

// setDeviceCapabilities registers the device icon shown on the server's
// devices page.
func (c *Client) setDeviceCapabilities(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"IconUrl": c.device.IconURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/Sessions/Capabilities/Full", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, http.StatusNoContent, nil)
}

// do sends the request with device and token headers, checks the status
// code, and decodes the JSON body into out when out is non-nil.
func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	c.setHeaders(req, token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", c.device.Name, c.device.Version))
	if token != "" {
		req.Header.Set("X-Emby-Token", token)
	}
}
