// Package linux provides Linux capability management.
package linux

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
)

// prctl constants used for bounding-set manipulation.
const (
	PR_CAPBSET_READ = 23
	PR_CAPBSET_DROP = 24
)

var (
	// lastCapOnce ensures we only detect the last capability once.
	lastCapOnce sync.Once
	// lastCapValue holds the detected last capability value.
	lastCapValue int = 40 // default fallback
)

// getLastCap returns the highest capability supported by the kernel,
// detected dynamically so newer kernels with more capabilities still
// get a complete drop.
func getLastCap() int {
	lastCapOnce.Do(func() {
		if data, err := os.ReadFile("/proc/sys/kernel/cap_last_cap"); err == nil {
			if val, err := strconv.Atoi(strings.TrimSpace(string(data))); err == nil && val >= 0 {
				lastCapValue = val
				return
			}
		}

		// Fallback: probe using prctl, starting above the known floor.
		for cap := 40; cap <= 63; cap++ {
			ret, _, _ := syscall.Syscall(syscall.SYS_PRCTL, PR_CAPBSET_READ, uintptr(cap), 0)
			if ret == ^uintptr(0) { // -1 means EINVAL, cap doesn't exist
				lastCapValue = cap - 1
				return
			}
		}
		lastCapValue = 63
	})
	return lastCapValue
}

// DropAllCapabilities drops every capability from the bounding set.
// The sandboxed child never needs any privileged capability, so
// unlike an OCI runtime's per-capability-set configuration, sandrun
// has exactly one policy: drop everything. Best-effort, failures are
// logged by the caller, not returned as fatal.
func DropAllCapabilities() error {
	lastCap := getLastCap()

	for cap := 0; cap <= lastCap; cap++ {
		ret, _, _ := syscall.Syscall(syscall.SYS_PRCTL, PR_CAPBSET_READ, uintptr(cap), 0)
		if ret != 1 {
			continue // not in the bounding set
		}
		_, _, errno := syscall.Syscall(syscall.SYS_PRCTL, PR_CAPBSET_DROP, uintptr(cap), 0)
		if errno != 0 && errno != syscall.EINVAL {
			return fmt.Errorf("drop cap %d: %v", cap, errno)
		}
	}

	return nil
}
