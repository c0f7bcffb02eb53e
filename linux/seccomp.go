// Package linux provides seccomp BPF filter support.
package linux

import (
	"fmt"
	"syscall"
	"unsafe"

	"sandrun/policy"
)

// Seccomp constants
const (
	SECCOMP_MODE_FILTER      = 2
	SECCOMP_RET_KILL_PROCESS = 0x80000000
	SECCOMP_RET_LOG          = 0x7ffc0000
	SECCOMP_RET_ALLOW        = 0x7fff0000

	PR_SET_NO_NEW_PRIVS = 38
	PR_SET_SECCOMP      = 22
)

// BPF constants
const (
	BPF_LD  = 0x00
	BPF_JMP = 0x05
	BPF_RET = 0x06
	BPF_W   = 0x00
	BPF_ABS = 0x20
	BPF_JEQ = 0x10
	BPF_K   = 0x00
)

// Seccomp data offsets
const (
	offsetNR   = 0
	offsetArch = 4
)

// Architecture audit value. sandrun only builds and ships the filter
// for x86_64; other architectures would need their own audit constant
// and syscall table.
const AUDIT_ARCH_X86_64 = 0xc000003e

// sockFprog is the BPF program structure.
type sockFprog struct {
	Len    uint16
	Filter *sockFilter
}

// sockFilter is a single BPF instruction.
type sockFilter struct {
	Code uint16
	Jt   uint8
	Jf   uint8
	K    uint32
}

// syscallMap maps syscall names to numbers (x86_64).
var syscallMap = map[string]int{
	"read": 0, "write": 1, "open": 2, "close": 3, "stat": 4,
	"fstat": 5, "lstat": 6, "poll": 7, "lseek": 8, "mmap": 9,
	"mprotect": 10, "munmap": 11, "brk": 12,
	"writev": 20, "access": 21, "pipe": 22, "select": 23,
	"sched_yield": 24, "mremap": 25, "msync": 26, "mincore": 27,
	"madvise": 28, "dup": 32, "dup2": 33, "pause": 34, "nanosleep": 35,
	"getpid": 39, "socket": 41, "connect": 42, "accept": 43,
	"execve": 59, "exit": 60, "wait4": 61, "kill": 62, "uname": 63,
	"fcntl": 72, "getcwd": 79, "chdir": 80, "mkdir": 83, "rmdir": 84,
	"readlink": 89, "chmod": 90, "getrlimit": 97, "getrusage": 98,
	"sysinfo": 99, "getuid": 102, "getgid": 104, "geteuid": 107,
	"getegid": 108, "arch_prctl": 158, "prctl": 157, "getrandom": 318,
	"openat": 257, "newfstatat": 262, "set_tid_address": 218,
	"set_robust_list": 273, "rseq": 334, "exit_group": 231,
	"futex": 202, "clock_gettime": 228, "gettid": 186,
}

// SetupSeccomp installs a BPF filter built from a profile's syscall
// policy. Fatal on any failure to build or commit: an unfiltered
// child must never run.
func SetupSeccomp(pol policy.SyscallPolicy) error {
	if _, _, errno := syscall.Syscall(syscall.SYS_PRCTL, PR_SET_NO_NEW_PRIVS, 1, 0); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_NO_NEW_PRIVS): %v", errno)
	}

	filter, err := buildSeccompFilter(pol)
	if err != nil {
		return fmt.Errorf("build filter: %w", err)
	}

	prog := sockFprog{
		Len:    uint16(len(filter)),
		Filter: &filter[0],
	}

	if _, _, errno := syscall.Syscall(syscall.SYS_PRCTL,
		PR_SET_SECCOMP,
		SECCOMP_MODE_FILTER,
		uintptr(unsafe.Pointer(&prog))); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_SECCOMP): %v", errno)
	}

	return nil
}

// buildSeccompFilter builds a BPF program enforcing one architecture
// check followed by an allow-list keyed purely on syscall identity,
// no argument matching.
func buildSeccompFilter(pol policy.SyscallPolicy) ([]sockFilter, error) {
	var defaultRet uint32
	switch pol.DefaultAction {
	case policy.ActionKill:
		defaultRet = SECCOMP_RET_KILL_PROCESS
	case policy.ActionLogAndAllow:
		defaultRet = SECCOMP_RET_LOG
	default:
		return nil, fmt.Errorf("unknown default action: %v", pol.DefaultAction)
	}

	var filter []sockFilter

	// Architecture gate: kill immediately on any non-native arch.
	filter = append(filter, bpfStmt(BPF_LD|BPF_W|BPF_ABS, offsetArch))
	filter = append(filter, bpfJump(BPF_JMP|BPF_JEQ|BPF_K, AUDIT_ARCH_X86_64, 1, 0))
	filter = append(filter, bpfStmt(BPF_RET|BPF_K, SECCOMP_RET_KILL_PROCESS))

	// Load the syscall number once; every allow-set entry below
	// compares against it.
	filter = append(filter, bpfStmt(BPF_LD|BPF_W|BPF_ABS, offsetNR))

	for _, name := range pol.Allow {
		nr, ok := syscallMap[name]
		if !ok {
			return nil, fmt.Errorf("unknown syscall in allow-set: %s", name)
		}
		filter = append(filter, bpfJump(BPF_JMP|BPF_JEQ|BPF_K, uint32(nr), 0, 1))
		filter = append(filter, bpfStmt(BPF_RET|BPF_K, SECCOMP_RET_ALLOW))
	}

	filter = append(filter, bpfStmt(BPF_RET|BPF_K, defaultRet))

	return filter, nil
}

// bpfStmt creates a BPF statement.
func bpfStmt(code uint16, k uint32) sockFilter {
	return sockFilter{Code: code, Jt: 0, Jf: 0, K: k}
}

// bpfJump creates a BPF jump instruction.
func bpfJump(code uint16, k uint32, jt, jf uint8) sockFilter {
	return sockFilter{Code: code, Jt: jt, Jf: jf, K: k}
}

// SyscallNumber returns the syscall number for a name.
func SyscallNumber(name string) (int, bool) {
	nr, ok := syscallMap[name]
	return nr, ok
}
