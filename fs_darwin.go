//go:build darwin

package findit

import (
	"os"
	"syscall"
	"time"
)

// sysTimes extracts access and birth timestamps.
func sysTimes(fi os.FileInfo) (accessed, created time.Time) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, time.Time{}
	}
	accessed = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	created = time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	return accessed, created
}
