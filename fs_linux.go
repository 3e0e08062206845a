//go:build linux

package findit

import (
	"os"
	"syscall"
	"time"
)

// sysTimes extracts access and change timestamps. Linux has no portable
// birth time through Stat_t, so the inode change time stands in for CREATED.
func sysTimes(fi os.FileInfo) (accessed, created time.Time) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	return accessed, created
}
