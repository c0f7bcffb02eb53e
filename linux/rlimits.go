// Package linux provides setrlimit-equivalent resource caps.
package linux

import (
	"fmt"

	"golang.org/x/sys/unix"

	"sandrun/policy"
)

// resourceCap pairs a human name with the rlimit resource constant and
// the fixed ceiling from policy.ResourceCaps, in the same order the
// original launcher applies them: stack, open files, address space,
// then process count.
var resourceCaps = []struct {
	name     string
	resource int
	limit    uint64
}{
	{"RLIMIT_STACK", unix.RLIMIT_STACK, policy.ResourceCaps.StackBytes},
	{"RLIMIT_NOFILE", unix.RLIMIT_NOFILE, policy.ResourceCaps.NoFile},
	{"RLIMIT_AS", unix.RLIMIT_AS, policy.ResourceCaps.AddressSpaceBytes},
	{"RLIMIT_NPROC", unix.RLIMIT_NPROC, policy.ResourceCaps.NProc},
}

// ApplyResourceCaps applies the fixed rlimit set to the calling
// process (the child, just before the seccomp filter and exec). Each
// cap is independent and best-effort: a failure on one does not
// prevent the others from being attempted. The caller logs each
// returned error individually.
func ApplyResourceCaps() []error {
	var errs []error
	for _, c := range resourceCaps {
		rlim := unix.Rlimit{Cur: c.limit, Max: c.limit}
		if err := unix.Setrlimit(c.resource, &rlim); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errs
}
