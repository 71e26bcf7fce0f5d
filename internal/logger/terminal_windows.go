//go:build windows

package logger

import "golang.org/x/sys/windows"

// isTerminal also switches the console to virtual terminal processing so
// the ANSI colors of the text handler render. Consoles that refuse it are
// treated as plain output.
func isTerminal(fd uintptr) bool {
	h := windows.Handle(fd)
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
