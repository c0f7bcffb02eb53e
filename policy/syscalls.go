package policy

// DefaultAction is the seccomp-BPF action taken for a syscall outside
// the active profile's allow-set.
type DefaultAction int

const (
	// ActionKill terminates the process immediately (SCMP_ACT_KILL_PROCESS
	// equivalent) on any non-allowed syscall.
	ActionKill DefaultAction = iota
	// ActionLogAndAllow permits the syscall but asks the kernel to log
	// it, used only under Learning.
	ActionLogAndAllow
)

// baseline is the set of syscalls every profile allows: enough for a
// dynamically linked program to start, read/write standard streams,
// read randomness, and exit. Order is insignificant; it exists as a
// table, not an ordered filter chain.
var baseline = []string{
	"execve", "brk", "mmap", "munmap", "mprotect",
	"exit_group", "exit", "arch_prctl",
	"write", "writev", "read", "fstat", "lseek", "close",
	"openat", "readlink", "getrandom",
}

// SyscallPolicy is the per-profile (default action, allow-set) pair.
type SyscallPolicy struct {
	DefaultAction DefaultAction
	Allow         []string
}

// PolicyFor returns the syscall policy for a profile. The returned
// slice is a fresh copy; callers may not mutate the package-level
// tables through it.
func PolicyFor(p Profile) SyscallPolicy {
	allow := make([]string, len(baseline))
	copy(allow, baseline)

	switch p {
	case ResourceAware:
		allow = append(allow, "getrusage")
		return SyscallPolicy{DefaultAction: ActionKill, Allow: allow}
	case Learning:
		// Learning inherits the baseline allow-set (it is used only to
		// decide what gets logged vs silently permitted by the default
		// action) but permits everything else by default.
		return SyscallPolicy{DefaultAction: ActionLogAndAllow, Allow: allow}
	default: // Strict
		return SyscallPolicy{DefaultAction: ActionKill, Allow: allow}
	}
}
