// Package policy defines the sandbox profile tagged variant and the
// syscall/resource tables each profile selects. There is no OCI-style
// config.json bundle here: just a profile name and a target binary.
package policy

import "fmt"

// Profile selects the isolation and adaptation posture for a run.
type Profile int

const (
	// Strict kills the child on any non-allowed syscall and applies no
	// adaptive policy. The default when --profile is omitted.
	Strict Profile = iota
	// ResourceAware behaves like Strict but additionally allows
	// getrusage and applies cgroup hard caps.
	ResourceAware
	// Learning permits (and logs) non-allowed syscalls instead of
	// killing, and activates the supervisor's adaptive policy engine.
	Learning
)

// String returns the canonical CLI spelling of the profile, including
// the mid-word hyphen RESOURCE-AWARE uses in --profile and in the
// emitted report (but not in Go identifiers).
func (p Profile) String() string {
	switch p {
	case Strict:
		return "STRICT"
	case ResourceAware:
		return "RESOURCE-AWARE"
	case Learning:
		return "LEARNING"
	default:
		return "UNKNOWN"
	}
}

// ParseProfile parses a --profile value. An unrecognized value returns
// Strict and ok=false so the caller can warn and fall back, per the
// CLI contract.
func ParseProfile(s string) (p Profile, ok bool) {
	switch s {
	case "STRICT", "":
		return Strict, true
	case "RESOURCE-AWARE", "RESOURCE_AWARE":
		return ResourceAware, true
	case "LEARNING":
		return Learning, true
	default:
		return Strict, false
	}
}

// AdaptivePolicyActive reports whether the supervisor's adaptive
// escalation engine runs under this profile. Only Learning arms it.
func (p Profile) AdaptivePolicyActive() bool {
	return p == Learning
}

// GoString supports %#v and error formatting.
func (p Profile) GoString() string {
	return fmt.Sprintf("policy.Profile(%s)", p.String())
}
