package supervisor

import "testing"

func TestAdaptiveThresholdsCPU(t *testing.T) {
	th := newAdaptiveThresholds(100) // clockTickHz=100 -> threshold 200 ticks
	if th.cpuTicks != 200 {
		t.Fatalf("cpuTicks = %d, want 200", th.cpuTicks)
	}
	if !th.exceeded(201, 0) {
		t.Error("expected escalation at 201 cumulative ticks")
	}
	if th.exceeded(200, 0) {
		t.Error("did not expect escalation at exactly the threshold")
	}
}

func TestAdaptiveThresholdsMajorFaults(t *testing.T) {
	th := newAdaptiveThresholds(100)
	if !th.exceeded(0, 1001) {
		t.Error("expected escalation past 1000 major faults")
	}
	if th.exceeded(0, 1000) {
		t.Error("did not expect escalation at exactly 1000 major faults")
	}
}
