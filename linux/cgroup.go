// Package linux provides cgroup v2 resource management.
package linux

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const cgroupRoot = "/sys/fs/cgroup"

// CgroupMemoryMaxBytes and CgroupPidsMax are the hard resource
// ceilings layered on top of the
// rlimit-equivalent soft caps (policy.ResourceCaps) for RESOURCE_AWARE
// and LEARNING runs. Unlike the rlimits, these are enforced by the
// kernel's cgroup v2 controller and cannot be raised by the child.
const (
	CgroupMemoryMaxBytes = 256 * 1024 * 1024
	CgroupPidsMax        = 32
)

// Cgroup represents a cgroup v2 control group.
type Cgroup struct {
	path string
}

// NewCgroup creates a cgroup for one sandboxed run at
// /sys/fs/cgroup/sandrun/<pid>.
func NewCgroup(pid int) (*Cgroup, error) {
	fullPath := filepath.Join(cgroupRoot, "sandrun", strconv.Itoa(pid))
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return nil, fmt.Errorf("create cgroup directory: %w", err)
	}
	return &Cgroup{path: fullPath}, nil
}

// Path returns the filesystem path of the cgroup.
func (c *Cgroup) Path() string {
	return c.path
}

// AddProcess adds a process to this cgroup.
func (c *Cgroup) AddProcess(pid int) error {
	procsPath := filepath.Join(c.path, "cgroup.procs")
	return os.WriteFile(procsPath, []byte(strconv.Itoa(pid)), 0644)
}

// ApplyHardCaps writes memory.max and pids.max, sandrun's fixed
// cgroup v2 ceilings for RESOURCE_AWARE and LEARNING runs.
func (c *Cgroup) ApplyHardCaps() error {
	memPath := filepath.Join(c.path, "memory.max")
	if err := os.WriteFile(memPath, []byte(strconv.Itoa(CgroupMemoryMaxBytes)), 0644); err != nil {
		return fmt.Errorf("set memory.max: %w", err)
	}

	pidsPath := filepath.Join(c.path, "pids.max")
	if err := os.WriteFile(pidsPath, []byte(strconv.Itoa(CgroupPidsMax)), 0644); err != nil {
		return fmt.Errorf("set pids.max: %w", err)
	}

	return nil
}

// Destroy removes the cgroup. The cgroup must be empty (the child
// already reaped) for this to succeed.
func (c *Cgroup) Destroy() error {
	return os.Remove(c.path)
}

// GetMemoryCurrent returns current memory usage, used by tests and
// diagnostics rather than the sampling path (which reads /proc
// directly per the host metrics contract).
func (c *Cgroup) GetMemoryCurrent() (int64, error) {
	data, err := os.ReadFile(filepath.Join(c.path, "memory.current"))
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
