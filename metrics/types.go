// Package metrics reads the host's process-introspection surface
// (/proc) into the typed snapshots the supervisor samples every tick.
// Every read degrades to zero/Unavailable instead of erroring: a
// single unreadable file must never abort sampling.
package metrics

// ProcessSnapshot is one observation of a child process's cumulative
// counters. Unavailable is set when the backing /proc entries could
// not be read at all (process already reaped, permission denied);
// callers must treat all other fields as zero in that case and keep
// sampling.
type ProcessSnapshot struct {
	CPUTicks      uint64 // user + system, self + children
	MinFlt        uint64 // minor page faults, self + children
	MajFlt        uint64 // major page faults, self + children
	VMPeakKB      int64  // peak virtual memory size, KiB
	ReadSyscalls  uint64 // syscr from /proc/<pid>/io
	WriteSyscalls uint64 // syscw from /proc/<pid>/io
	Unavailable   bool
}

// SystemSnapshot is the system-wide cumulative CPU tick total.
type SystemSnapshot struct {
	TotalTicks uint64
}
