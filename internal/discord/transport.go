// Package discord owns the connection to the local presence display process.
// The wire protocol is Discord's IPC pipe: framed JSON messages with a
// little-endian opcode and length prefix, a versioned handshake, and
// SET_ACTIVITY commands carrying the activity payload.
package discord

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/jellycord/jellycord/internal/domain"
	"go.uber.org/zap"
)

const (
	opHandshake uint32 = 0
	opFrame     uint32 = 1
	opClose     uint32 = 2
	opPing      uint32 = 3
	opPong      uint32 = 4
)

// maxFrameSize bounds a single IPC frame; real payloads are a few hundred
// bytes.
const maxFrameSize = 64 * 1024

// activityTypeWatching renders the presence as "Watching ..." on the display
const activityTypeWatching = 3

// Transport is one raw framed connection to the presence display process.
// A Transport is single-use: once Done is closed it cannot be reopened.
type Transport interface {
	// Open dials the display socket and performs the handshake
	Open(ctx context.Context) error

	// SetActivity publishes the payload as the current activity
	SetActivity(p *domain.PresencePayload) error

	// ClearActivity removes the current activity
	ClearActivity() error

	// Close tears the connection down. Safe to call more than once.
	Close() error

	// Done is closed when the connection ends, whether by Close or by the
	// remote side going away
	Done() <-chan struct{}
}

// SocketTransport is the real Transport over the platform IPC socket
type SocketTransport struct {
	logger   *zap.Logger
	clientID string

	writeMu sync.Mutex
	conn    io.ReadWriteCloser

	done      chan struct{}
	closeOnce sync.Once
}

// NewSocketTransport creates an unopened transport for the given Discord
// application id.
func NewSocketTransport(clientID string, logger *zap.Logger) *SocketTransport {
	return &SocketTransport{
		logger:   logger,
		clientID: clientID,
		done:     make(chan struct{}),
	}
}

type handshakeRequest struct {
	Version  int    `json:"v"`
	ClientID string `json:"client_id"`
}

type ipcEvent struct {
	Cmd     string `json:"cmd"`
	Evt     string `json:"evt"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Open dials the local display socket, sends the versioned handshake, and
// waits for the ready event before starting the read loop.
func (t *SocketTransport) Open(ctx context.Context) error {
	conn, err := dialIPC(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach presence display: %w", err)
	}
	t.conn = conn

	payload, err := json.Marshal(handshakeRequest{Version: 1, ClientID: t.clientID})
	if err != nil {
		conn.Close() //nolint:errcheck
		return err
	}
	if err := writeFrame(conn, opHandshake, payload); err != nil {
		conn.Close() //nolint:errcheck
		return fmt.Errorf("handshake write failed: %w", err)
	}

	op, resp, err := readFrame(conn)
	if err != nil {
		conn.Close() //nolint:errcheck
		return fmt.Errorf("handshake read failed: %w", err)
	}

	var evt ipcEvent
	if err := json.Unmarshal(resp, &evt); err != nil {
		conn.Close() //nolint:errcheck
		return fmt.Errorf("malformed handshake response: %w", err)
	}
	if op == opClose || evt.Evt == "ERROR" {
		conn.Close() //nolint:errcheck
		return fmt.Errorf("handshake rejected: %s (code %d)", evt.Message, evt.Code)
	}

	t.logger.Debug("Presence display handshake complete", zap.String("event", evt.Evt))

	go t.readLoop()
	return nil
}

// readLoop drains incoming frames: command acknowledgements are discarded,
// pings are answered, and a close frame or read error ends the connection.
func (t *SocketTransport) readLoop() {
	for {
		op, payload, err := readFrame(t.conn)
		if err != nil {
			t.logger.Debug("Presence display read loop ended", zap.Error(err))
			t.shutdown()
			return
		}

		switch op {
		case opPing:
			t.writeMu.Lock()
			err := writeFrame(t.conn, opPong, payload)
			t.writeMu.Unlock()
			if err != nil {
				t.shutdown()
				return
			}
		case opClose:
			t.logger.Debug("Presence display sent close frame")
			t.shutdown()
			return
		case opFrame:
			var evt ipcEvent
			if err := json.Unmarshal(payload, &evt); err == nil && evt.Evt == "ERROR" {
				t.logger.Warn("Presence display rejected a command",
					zap.String("message", evt.Message),
					zap.Int("code", evt.Code))
			}
		}
	}
}

// SetActivity publishes the payload as the current activity
func (t *SocketTransport) SetActivity(p *domain.PresencePayload) error {
	return t.sendActivity(activityFromPayload(p))
}

// ClearActivity removes the current activity
func (t *SocketTransport) ClearActivity() error {
	return t.sendActivity(nil)
}

func (t *SocketTransport) sendActivity(a *activity) error {
	cmd := ipcCommand{
		Cmd:   "SET_ACTIVITY",
		Nonce: uuid.NewString(),
		Args: setActivityArgs{
			PID:      os.Getpid(),
			Activity: a,
		},
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	select {
	case <-t.done:
		return &domain.ChannelTransportError{Op: "write", Err: io.ErrClosedPipe}
	default:
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := writeFrame(t.conn, opFrame, payload); err != nil {
		return &domain.ChannelTransportError{Op: "write", Err: err}
	}
	return nil
}

// Close tears the connection down. Safe to call more than once.
func (t *SocketTransport) Close() error {
	t.shutdown()
	return nil
}

// Done is closed when the connection ends
func (t *SocketTransport) Done() <-chan struct{} {
	return t.done
}

func (t *SocketTransport) shutdown() {
	t.closeOnce.Do(func() {
		if t.conn != nil {
			t.conn.Close() //nolint:errcheck
		}
		close(t.done)
	})
}

func writeFrame(w io.Writer, op uint32, payload []byte) error {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], op)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) (uint32, []byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}
	op := binary.LittleEndian.Uint32(header[0:4])
	size := binary.LittleEndian.Uint32(header[4:8])
	if size > maxFrameSize {
		return 0, nil, fmt.Errorf("frame of %d bytes exceeds limit", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, err
	}
	return op, payload, nil
}
