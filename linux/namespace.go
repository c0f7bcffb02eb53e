// Package linux provides Linux-specific sandbox primitives: namespace
// construction, rootfs isolation, resource caps, cgroup hard limits,
// capability dropping, and the seccomp-BPF filter installer.
package linux

import (
	"os"
	"syscall"
)

// Namespace clone flags. sandrun always requests the same fixed set
// (mount, PID, IPC, UTS, user); there is no per-run namespace
// configuration surface.
const (
	CLONE_NEWNS   = syscall.CLONE_NEWNS   // Mount namespace
	CLONE_NEWUTS  = syscall.CLONE_NEWUTS  // UTS namespace (hostname)
	CLONE_NEWIPC  = syscall.CLONE_NEWIPC  // IPC namespace
	CLONE_NEWPID  = syscall.CLONE_NEWPID  // PID namespace
	CLONE_NEWUSER = syscall.CLONE_NEWUSER // User namespace
)

// SandboxNamespaces is the fixed namespace set every profile applies.
const SandboxNamespaces = CLONE_NEWNS | CLONE_NEWUTS | CLONE_NEWIPC | CLONE_NEWPID | CLONE_NEWUSER

// BuildSysProcAttr returns the SysProcAttr for spawning the sandboxed
// child: the fixed namespace set, a single-entry UID/GID mapping so
// the child sees itself as root inside its own user namespace, and
// Pdeathsig so the child is killed if the supervisor itself dies
// unexpectedly.
func BuildSysProcAttr() *syscall.SysProcAttr {
	uid := os.Getuid()
	gid := os.Getgid()

	return &syscall.SysProcAttr{
		Cloneflags: SandboxNamespaces,
		Pdeathsig:  syscall.SIGKILL,
		UidMappings: []syscall.SysProcIDMap{
			{ContainerID: 0, HostID: uid, Size: 1},
		},
		GidMappings: []syscall.SysProcIDMap{
			{ContainerID: 0, HostID: gid, Size: 1},
		},
		GidMappingsEnableSetgroups: false,
	}
}

// SetHostname sets the hostname in the UTS namespace. Best-effort: a
// failure here never blocks the run.
func SetHostname(hostname string) error {
	if hostname == "" {
		return nil
	}
	return syscall.Sethostname([]byte(hostname))
}
