//go:build unix

package fs

import "golang.org/x/sys/unix"

func addressSpaceLimit() (uint64, bool) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_AS, &rlim); err != nil {
		return 0, false
	}
	return uint64(rlim.Cur), true
}
