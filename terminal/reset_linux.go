//go:build linux

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	cookedLocal = unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	cookedInput = unix.ICRNL
)

// resetTerminalMode puts the controlling tty back in cooked mode
// Opens /dev/tty rather than stdin, which may be redirected; failures are ignored
func resetTerminalMode() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	t.Lflag |= cookedLocal
	t.Iflag |= cookedInput
	_ = unix.IoctlSetTermios(fd, unix.TCSETS, t)
}
