package logger

import "golang.org/x/term"

// isTerminal checks if the file descriptor is a terminal
func isTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}
