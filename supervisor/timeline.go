// Package supervisor drives the parent-side supervision loop: spawn
// the isolated child, sample its resource usage every tick, evaluate
// the adaptive policy under LEARNING, reap the child, and produce the
// termination record consumed by the report emitter.
package supervisor

import "sandrun/policy"

// TimelineSample is one 100ms observation appended to a run's
// Timeline.
type TimelineSample struct {
	ElapsedMS  int64
	CPUPercent int
	MemoryKB   int64
}

// Timeline is an ordered, bounded sequence of samples. Past the hard
// cap, Append is a silent no-op: sampling continues and the summary's
// peak/cumulative fields (updated independently of append) still
// capture the run accurately.
type Timeline struct {
	samples []TimelineSample
}

// Append adds a sample if the timeline has not yet reached
// policy.MaxTimelineSamples.
func (t *Timeline) Append(s TimelineSample) {
	if len(t.samples) >= policy.MaxTimelineSamples {
		return
	}
	t.samples = append(t.samples, s)
}

// Len returns the number of recorded samples.
func (t *Timeline) Len() int {
	return len(t.samples)
}

// Samples returns the recorded samples in append order. The caller
// must not mutate the returned slice.
func (t *Timeline) Samples() []TimelineSample {
	return t.samples
}

// PeakCPU returns the maximum cpu_percent across the timeline, or 0
// if empty.
func (t *Timeline) PeakCPU() int {
	peak := 0
	for _, s := range t.samples {
		if s.CPUPercent > peak {
			peak = s.CPUPercent
		}
	}
	return peak
}

// TimeMS returns the time_ms array for the report's timeline object.
func (t *Timeline) TimeMS() []int64 {
	out := make([]int64, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.ElapsedMS
	}
	return out
}

// CPUPercentSeries returns the cpu_percent array for the report's
// timeline object.
func (t *Timeline) CPUPercentSeries() []int {
	out := make([]int, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.CPUPercent
	}
	return out
}

// MemoryKBSeries returns the memory_kb array for the report's
// timeline object.
func (t *Timeline) MemoryKBSeries() []int64 {
	out := make([]int64, len(t.samples))
	for i, s := range t.samples {
		out[i] = s.MemoryKB
	}
	return out
}
