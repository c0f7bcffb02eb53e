package supervisor

import (
	"testing"

	"sandrun/policy"
)

func TestTimelineAppendAndLen(t *testing.T) {
	var tl Timeline
	tl.Append(TimelineSample{ElapsedMS: 100, CPUPercent: 10, MemoryKB: 1000})
	tl.Append(TimelineSample{ElapsedMS: 200, CPUPercent: 20, MemoryKB: 2000})

	if tl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tl.Len())
	}
}

func TestTimelineDropsPastCap(t *testing.T) {
	var tl Timeline
	for i := 0; i < policy.MaxTimelineSamples+50; i++ {
		tl.Append(TimelineSample{ElapsedMS: int64(i), CPUPercent: 1, MemoryKB: 1})
	}
	if tl.Len() != policy.MaxTimelineSamples {
		t.Errorf("Len() = %d, want hard cap %d", tl.Len(), policy.MaxTimelineSamples)
	}
}

func TestTimelinePeakCPU(t *testing.T) {
	var tl Timeline
	tl.Append(TimelineSample{CPUPercent: 10})
	tl.Append(TimelineSample{CPUPercent: 90})
	tl.Append(TimelineSample{CPUPercent: 40})

	if got := tl.PeakCPU(); got != 90 {
		t.Errorf("PeakCPU() = %d, want 90", got)
	}
}

func TestTimelinePeakCPUEmpty(t *testing.T) {
	var tl Timeline
	if got := tl.PeakCPU(); got != 0 {
		t.Errorf("PeakCPU() on empty timeline = %d, want 0", got)
	}
}

func TestTimelineSeriesEqualLength(t *testing.T) {
	var tl Timeline
	tl.Append(TimelineSample{ElapsedMS: 1, CPUPercent: 2, MemoryKB: 3})
	tl.Append(TimelineSample{ElapsedMS: 4, CPUPercent: 5, MemoryKB: 6})

	tms := tl.TimeMS()
	cpus := tl.CPUPercentSeries()
	mems := tl.MemoryKBSeries()

	if len(tms) != len(cpus) || len(cpus) != len(mems) {
		t.Fatalf("series lengths differ: %d %d %d", len(tms), len(cpus), len(mems))
	}
	if tms[1] != 4 || cpus[1] != 5 || mems[1] != 6 {
		t.Errorf("series values wrong: %v %v %v", tms, cpus, mems)
	}
}
