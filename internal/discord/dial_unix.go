//go:build !windows

package discord

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// dialIPC tries the well-known display socket locations in order. The
// display process binds discord-ipc-0 through discord-ipc-9 under the first
// writable temp directory, with sandboxed installs nesting one level deeper.
func dialIPC(ctx context.Context) (io.ReadWriteCloser, error) {
	var dialer net.Dialer

	for _, dir := range socketDirs() {
		for i := 0; i < 10; i++ {
			path := filepath.Join(dir, fmt.Sprintf("discord-ipc-%d", i))
			conn, err := dialer.DialContext(ctx, "unix", path)
			if err == nil {
				return conn, nil
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("no presence display socket found")
}

func socketDirs() []string {
	var dirs []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if dir := os.Getenv(env); dir != "" {
			dirs = append(dirs,
				dir,
				filepath.Join(dir, "app", "com.discordapp.Discord"), // flatpak
				filepath.Join(dir, "snap.discord"),                  // snap
			)
		}
	}
	return append(dirs, "/tmp")
}
