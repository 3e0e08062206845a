//go:build linux || darwin

package findit

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// sysOwner resolves the owning user and group names. Unresolvable ids fall
// back to their numeric form.
func sysOwner(fi os.FileInfo) (string, string) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return "", ""
	}
	owner := strconv.FormatUint(uint64(st.Uid), 10)
	group := strconv.FormatUint(uint64(st.Gid), 10)
	if u, err := user.LookupId(owner); err == nil {
		owner = u.Username
	}
	if g, err := user.LookupGroupId(group); err == nil {
		group = g.Name
	}
	return owner, group
}

// sysDevIno identifies a file for symlink-cycle detection.
func sysDevIno(fi os.FileInfo) (uint64, uint64, bool) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}
