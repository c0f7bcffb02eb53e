// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Setup errors.
var (
	// ErrStackAlloc indicates the child stack could not be allocated.
	ErrStackAlloc = &SandboxError{
		Kind:   ErrSetupFatal,
		Detail: "failed to allocate child stack",
	}

	// ErrSpawnFailed indicates the supervisor could not spawn the child.
	ErrSpawnFailed = &SandboxError{
		Kind:   ErrSetupFatal,
		Detail: "failed to spawn child",
	}

	// ErrNoTarget indicates no target executable was given on the
	// command line.
	ErrNoTarget = &SandboxError{
		Kind:   ErrSetupFatal,
		Detail: "no target executable specified",
	}

	// ErrTargetNotFound indicates the target executable could not be
	// resolved on PATH or as a path.
	ErrTargetNotFound = &SandboxError{
		Kind:   ErrSetupFatal,
		Detail: "target executable not found",
	}
)

// Security-related errors.
var (
	// ErrSeccompBuild indicates the BPF program could not be built.
	ErrSeccompBuild = &SandboxError{
		Kind:   ErrSeccomp,
		Detail: "failed to build seccomp filter",
	}

	// ErrSeccompCommit indicates the filter could not be installed via
	// prctl. This is always fatal: the child must not run unfiltered.
	ErrSeccompCommit = &SandboxError{
		Kind:   ErrSeccomp,
		Detail: "failed to install seccomp filter",
	}

	// ErrCapabilityDrop indicates the bounding-set drop failed.
	ErrCapabilityDrop = &SandboxError{
		Kind:   ErrSetupBestEffort,
		Detail: "failed to drop capabilities",
	}
)

// Namespace and mount errors.
var (
	// ErrNamespaceSetup indicates the clone/unshare of the namespace set
	// failed.
	ErrNamespaceSetup = &SandboxError{
		Kind:   ErrNamespace,
		Detail: "failed to enter namespaces",
	}

	// ErrMountPrivate indicates the root mount propagation change failed.
	// Best-effort: logged, not fatal.
	ErrMountPrivate = &SandboxError{
		Kind:   ErrSetupBestEffort,
		Detail: "failed to mark root mount private",
	}

	// ErrRemountReadOnly indicates the read-only bind remount of root
	// failed. Best-effort: logged, not fatal.
	ErrRemountReadOnly = &SandboxError{
		Kind:   ErrSetupBestEffort,
		Detail: "failed to remount root read-only",
	}
)

// Cgroup errors.
var (
	// ErrCgroupSetup indicates the cgroup hard caps could not be
	// applied. Best-effort under RESOURCE_AWARE and LEARNING.
	ErrCgroupSetup = &SandboxError{
		Kind:   ErrSetupBestEffort,
		Detail: "failed to apply cgroup caps",
	}
)

// Resource cap errors.
var (
	// ErrResourceCap indicates a single setrlimit-equivalent call
	// failed. Best-effort: logged, not fatal.
	ErrResourceCap = &SandboxError{
		Kind:   ErrSetupBestEffort,
		Detail: "failed to apply resource cap",
	}
)

// Introspection errors.
var (
	// ErrProcUnavailable indicates the host's per-process introspection
	// surface could not be read for one sampling tick.
	ErrProcUnavailable = &SandboxError{
		Kind:   ErrIntrospection,
		Detail: "process introspection surface unavailable",
	}
)

// Emitter errors.
var (
	// ErrLogsDirCreate indicates the logs/ directory could not be
	// created.
	ErrLogsDirCreate = &SandboxError{
		Kind:   ErrEmit,
		Detail: "failed to create logs directory",
	}

	// ErrReportWrite indicates the termination record could not be
	// written to disk.
	ErrReportWrite = &SandboxError{
		Kind:   ErrEmit,
		Detail: "failed to write run report",
	}
)
