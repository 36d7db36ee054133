//go:build !unix

package fs

func addressSpaceLimit() (uint64, bool) {
	return 0, false
}
