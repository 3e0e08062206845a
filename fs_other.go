//go:build !linux && !darwin

package findit

import (
	"os"
	"time"
)

// Portable fallbacks: platforms without Stat_t report no access or creation
// time and no ownership, which surfaces as Empty in expressions.

func sysTimes(os.FileInfo) (accessed, created time.Time) {
	return time.Time{}, time.Time{}
}

func sysOwner(os.FileInfo) (string, string) { return "", "" }

func sysDevIno(os.FileInfo) (uint64, uint64, bool) { return 0, 0, false }
