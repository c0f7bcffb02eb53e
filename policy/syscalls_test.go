package policy

import "testing"

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

func TestPolicyForStrict(t *testing.T) {
	pol := PolicyFor(Strict)
	if pol.DefaultAction != ActionKill {
		t.Fatalf("STRICT default action = %v, want ActionKill", pol.DefaultAction)
	}
	if contains(pol.Allow, "getrusage") {
		t.Error("STRICT must not allow getrusage")
	}
	for _, want := range baseline {
		if !contains(pol.Allow, want) {
			t.Errorf("STRICT allow-set missing baseline syscall %q", want)
		}
	}
}

func TestPolicyForResourceAware(t *testing.T) {
	pol := PolicyFor(ResourceAware)
	if pol.DefaultAction != ActionKill {
		t.Fatalf("RESOURCE_AWARE default action = %v, want ActionKill", pol.DefaultAction)
	}
	if !contains(pol.Allow, "getrusage") {
		t.Error("RESOURCE_AWARE must allow getrusage")
	}
}

func TestPolicyForLearning(t *testing.T) {
	pol := PolicyFor(Learning)
	if pol.DefaultAction != ActionLogAndAllow {
		t.Fatalf("LEARNING default action = %v, want ActionLogAndAllow", pol.DefaultAction)
	}
}

func TestPolicyForReturnsIndependentCopies(t *testing.T) {
	a := PolicyFor(Strict)
	a.Allow[0] = "mutated"
	b := PolicyFor(Strict)
	if b.Allow[0] == "mutated" {
		t.Error("PolicyFor must return a fresh copy of the allow-set each call")
	}
}
