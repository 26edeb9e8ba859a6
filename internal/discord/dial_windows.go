//go:build windows

package discord

import (
	"context"
	"fmt"
	"io"
	"os"
)

// dialIPC opens the display's named pipe. Named pipes accept plain duplex
// file I/O, so no dedicated pipe client is needed.
func dialIPC(ctx context.Context) (io.ReadWriteCloser, error) {
	for i := 0; i < 10; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f, err := os.OpenFile(fmt.Sprintf(`\\.\pipe\discord-ipc-%d`, i), os.O_RDWR, 0)
		if err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("no presence display pipe found")
}
