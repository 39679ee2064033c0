//go:build unix

package identity

import "golang.org/x/sys/unix"

// ProcessIDs holds the real and effective IDs of a process.
type ProcessIDs struct {
	UID  uint32
	EUID uint32
	GID  uint32
	EGID uint32
}

// CurrentProcess reads the real and effective IDs of the calling process.
func CurrentProcess() ProcessIDs {
	return ProcessIDs{
		UID:  uint32(unix.Getuid()),
		EUID: uint32(unix.Geteuid()),
		GID:  uint32(unix.Getgid()),
		EGID: uint32(unix.Getegid()),
	}
}
