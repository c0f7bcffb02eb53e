package supervisor

import (
	"syscall"
	"testing"
)

func TestReconcileExited(t *testing.T) {
	rec := &TerminationRecord{}
	status := syscall.WaitStatus(3 << 8) // exit code 3
	reconcile(rec, status, false)

	if rec.ExitReason.Kind != ReasonExited || rec.ExitReason.Code != 3 {
		t.Fatalf("got %+v, want EXITED(3)", rec.ExitReason)
	}
	if rec.BlockedSyscalls != 0 {
		t.Errorf("BlockedSyscalls = %d, want 0", rec.BlockedSyscalls)
	}
}

func TestReconcileSecurityViolation(t *testing.T) {
	rec := &TerminationRecord{}
	status := syscall.WaitStatus(syscall.SIGSYS)
	reconcile(rec, status, false)

	if rec.ExitReason.Kind != ReasonSecurityViolation {
		t.Fatalf("got %+v, want SECURITY_VIOLATION", rec.ExitReason)
	}
	if rec.BlockedSyscalls != 1 {
		t.Errorf("BlockedSyscalls = %d, want 1", rec.BlockedSyscalls)
	}
	if rec.BlockedSyscall != "Unknown(SIGSYS)" {
		t.Errorf("BlockedSyscall = %q", rec.BlockedSyscall)
	}
	if rec.Termination == "" {
		t.Error("Termination should be set for a signaled exit")
	}
}

func TestReconcileKilledByOS(t *testing.T) {
	rec := &TerminationRecord{}
	status := syscall.WaitStatus(syscall.SIGKILL)
	reconcile(rec, status, false)

	if rec.ExitReason.Kind != ReasonKilledByOS {
		t.Fatalf("got %+v, want KILLED_BY_OS", rec.ExitReason)
	}
}

func TestReconcilePolicyAdaptationKillWinsOverKilledByOS(t *testing.T) {
	rec := &TerminationRecord{}
	status := syscall.WaitStatus(syscall.SIGKILL)
	reconcile(rec, status, true)

	if rec.ExitReason.Kind != ReasonPolicyAdaptationKill {
		t.Fatalf("got %+v, want POLICY_ADAPTATION_KILL to win", rec.ExitReason)
	}
}

func TestReconcileGenericSignal(t *testing.T) {
	rec := &TerminationRecord{}
	status := syscall.WaitStatus(syscall.SIGTERM)
	reconcile(rec, status, false)

	if rec.ExitReason.Kind != ReasonSignaled {
		t.Fatalf("got %+v, want SIGNALED", rec.ExitReason)
	}
	if rec.ExitReason.Signal != int(syscall.SIGTERM) {
		t.Errorf("Signal = %d, want %d", rec.ExitReason.Signal, syscall.SIGTERM)
	}
}

func TestReconcileInvariant5(t *testing.T) {
	// blocked_syscalls == 1 iff exit_reason == SECURITY_VIOLATION.
	cases := []syscall.WaitStatus{
		syscall.WaitStatus(0 << 8),
		syscall.WaitStatus(syscall.SIGKILL),
		syscall.WaitStatus(syscall.SIGSYS),
	}
	for _, status := range cases {
		rec := &TerminationRecord{}
		reconcile(rec, status, false)
		isViolation := rec.ExitReason.Kind == ReasonSecurityViolation
		if isViolation != (rec.BlockedSyscalls == 1) {
			t.Errorf("status %v: violation=%v blocked=%d mismatch", status, isViolation, rec.BlockedSyscalls)
		}
	}
}
