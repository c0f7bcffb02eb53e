package linux

import (
	"testing"

	"sandrun/policy"
)

func TestSyscallNumberKnown(t *testing.T) {
	tests := []struct {
		name string
		nr   int
	}{
		{"read", 0},
		{"write", 1},
		{"writev", 20},
		{"execve", 59},
		{"exit_group", 231},
		{"getrandom", 318},
	}
	for _, tt := range tests {
		got, ok := SyscallNumber(tt.name)
		if !ok {
			t.Errorf("SyscallNumber(%q) not found", tt.name)
			continue
		}
		if got != tt.nr {
			t.Errorf("SyscallNumber(%q) = %d, want %d", tt.name, got, tt.nr)
		}
	}
}

func TestSyscallNumberUnknown(t *testing.T) {
	if _, ok := SyscallNumber("not_a_syscall"); ok {
		t.Error("SyscallNumber(bogus) should not be found")
	}
}

func TestBaselineAllowSetResolvesToKnownSyscalls(t *testing.T) {
	for _, profile := range []policy.Profile{policy.Strict, policy.ResourceAware, policy.Learning} {
		pol := policy.PolicyFor(profile)
		for _, name := range pol.Allow {
			if _, ok := SyscallNumber(name); !ok {
				t.Errorf("profile %s: allow-set syscall %q has no known number", profile, name)
			}
		}
	}
}

func TestBuildSeccompFilterStrict(t *testing.T) {
	pol := policy.PolicyFor(policy.Strict)
	filter, err := buildSeccompFilter(pol)
	if err != nil {
		t.Fatalf("buildSeccompFilter: %v", err)
	}

	// 3 instructions for the arch gate, 1 to load the syscall number,
	// 2 per allow-set entry, 1 trailing default-action return.
	want := 3 + 1 + 2*len(pol.Allow) + 1
	if len(filter) != want {
		t.Errorf("len(filter) = %d, want %d", len(filter), want)
	}

	last := filter[len(filter)-1]
	if last.K != SECCOMP_RET_KILL_PROCESS {
		t.Errorf("STRICT default action K = %#x, want SECCOMP_RET_KILL_PROCESS", last.K)
	}
}

func TestBuildSeccompFilterLearningDefaultsToLog(t *testing.T) {
	pol := policy.PolicyFor(policy.Learning)
	filter, err := buildSeccompFilter(pol)
	if err != nil {
		t.Fatalf("buildSeccompFilter: %v", err)
	}

	last := filter[len(filter)-1]
	if last.K != SECCOMP_RET_LOG {
		t.Errorf("LEARNING default action K = %#x, want SECCOMP_RET_LOG", last.K)
	}
}

func TestBuildSeccompFilterRejectsUnknownSyscall(t *testing.T) {
	pol := policy.SyscallPolicy{
		DefaultAction: policy.ActionKill,
		Allow:         []string{"not_a_real_syscall"},
	}
	if _, err := buildSeccompFilter(pol); err == nil {
		t.Error("buildSeccompFilter should reject an unknown syscall name")
	}
}
