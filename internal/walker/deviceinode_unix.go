//go:build !windows

package walker

import (
	"os"
	"syscall"
)

// deviceInode extracts the (device, inode) pair used for symlink-cycle
// detection. Returns ok=false on platforms or filesystems where the
// underlying stat_t isn't available, in which case cycle detection is
// skipped for that entry (best-effort, matching spec §9's guidance that
// path-based detection is the one approach to avoid — not that every
// platform must support the ideal one).
func deviceInode(info os.FileInfo) (visitKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return visitKey{}, false
	}
	return visitKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
