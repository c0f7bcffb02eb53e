package policy

// ResourceCaps are the fixed resource ceilings applied to every child
// before handoff, regardless of profile. RESOURCE_AWARE and LEARNING
// layer additional cgroup hard caps on top (see
// linux.CgroupMemoryMaxBytes and linux.CgroupPidsMax);
// these are the rlimit-equivalent soft caps from §3.
var ResourceCaps = struct {
	AddressSpaceBytes uint64
	StackBytes        uint64
	NoFile            uint64
	NProc             uint64
}{
	AddressSpaceBytes: 128 * 1024 * 1024,
	StackBytes:        8 * 1024 * 1024,
	NoFile:            64,
	NProc:             20,
}

// ChildStackBytes is the nominal child stack size (1 MiB). Nothing in
// sandrun allocates a buffer of this size: the child is spawned
// through os/exec, whose fork path runs on the Go runtime's own stack.
const ChildStackBytes = 1024 * 1024

// SampleIntervalMS is the supervisor's sampling cadence.
const SampleIntervalMS = 100

// MaxTimelineSamples bounds the timeline: 1000 samples at 100ms is
// 100s of coverage; further samples are dropped, not an error.
const MaxTimelineSamples = 1000

// MajorFaultThreshold is the Learning-profile escalation trigger for
// cumulative major page faults.
const MajorFaultThreshold = 1000
