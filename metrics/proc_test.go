package metrics

import "testing"

func TestClockTickHzDefault(t *testing.T) {
	t.Setenv("SANDRUN_CLK_TCK", "")
	if got := ClockTickHz(); got != 100 {
		t.Errorf("ClockTickHz() = %d, want 100", got)
	}
}

func TestClockTickHzOverride(t *testing.T) {
	t.Setenv("SANDRUN_CLK_TCK", "250")
	if got := ClockTickHz(); got != 250 {
		t.Errorf("ClockTickHz() = %d, want 250", got)
	}
}

func TestCoreCountAtLeastOne(t *testing.T) {
	if got := CoreCount(); got < 1 {
		t.Errorf("CoreCount() = %d, want >= 1", got)
	}
}

func TestReadSystemSnapshotOnLiveHost(t *testing.T) {
	// /proc/stat is always readable on Linux CI; this just exercises
	// the real parse path rather than a synthetic fixture.
	snap := ReadSystemSnapshot()
	if snap.TotalTicks == 0 {
		t.Error("ReadSystemSnapshot() on a live host should return nonzero ticks")
	}
}

func TestReadProcessSnapshotUnavailableForDeadPID(t *testing.T) {
	// PID 1 << 30 is never a valid process; every backing file is
	// absent, so the snapshot must degrade to zero with Unavailable set.
	const deadPID = 1 << 30
	snap := ReadProcessSnapshot(deadPID)
	if !snap.Unavailable {
		t.Error("ReadProcessSnapshot(deadPID).Unavailable = false, want true")
	}
	if snap.CPUTicks != 0 || snap.MinFlt != 0 || snap.MajFlt != 0 || snap.VMPeakKB != 0 {
		t.Error("ReadProcessSnapshot(deadPID) should have all-zero fields")
	}
}

func TestReadProcessSnapshotPID1(t *testing.T) {
	snap := ReadProcessSnapshot(1)
	if snap.Unavailable {
		t.Skip("no permission to read /proc/1 in this sandbox")
	}
	if snap.VMPeakKB <= 0 {
		t.Error("ReadProcessSnapshot(1).VMPeakKB should be positive for a live process")
	}
}
