package supervisor

import "sandrun/policy"

// adaptiveThresholds are the fixed, documented escalation triggers for
// the LEARNING profile's adaptive policy engine.
type adaptiveThresholds struct {
	cpuTicks  uint64
	majFaults uint64
}

// newAdaptiveThresholds derives the cumulative-CPU-ticks threshold
// from the host's clock tick frequency (~2s of full CPU) and the
// fixed major-fault threshold.
func newAdaptiveThresholds(clockTickHz int) adaptiveThresholds {
	return adaptiveThresholds{
		cpuTicks:  uint64(clockTickHz) * 2,
		majFaults: policy.MajorFaultThreshold,
	}
}

// exceeded reports whether the current cumulative counters breach
// either threshold. Only evaluated under LEARNING; STRICT and
// RESOURCE_AWARE never call this.
func (t adaptiveThresholds) exceeded(cpuTicksNow, majFltNow uint64) bool {
	return cpuTicksNow > t.cpuTicks || majFltNow > t.majFaults
}
