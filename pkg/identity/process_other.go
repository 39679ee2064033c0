//go:build !unix

package identity

// CurrentProcess has no meaningful answer on platforms without POSIX
// credentials; every ID reads as zero.
func CurrentProcess() ProcessIDs {
	return ProcessIDs{}
}
