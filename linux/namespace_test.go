package linux

import (
	"os"
	"syscall"
	"testing"
)

func TestSandboxNamespacesIncludesFixedSet(t *testing.T) {
	want := []uintptr{CLONE_NEWNS, CLONE_NEWUTS, CLONE_NEWIPC, CLONE_NEWPID, CLONE_NEWUSER}
	for _, flag := range want {
		if SandboxNamespaces&flag == 0 {
			t.Errorf("SandboxNamespaces missing flag %#x", flag)
		}
	}
}

func TestSandboxNamespacesExcludesNetwork(t *testing.T) {
	if SandboxNamespaces&syscall.CLONE_NEWNET != 0 {
		t.Error("SandboxNamespaces must not request a network namespace")
	}
}

func TestBuildSysProcAttr(t *testing.T) {
	attr := BuildSysProcAttr()

	if attr.Cloneflags != SandboxNamespaces {
		t.Errorf("Cloneflags = %#x, want %#x", attr.Cloneflags, SandboxNamespaces)
	}
	if attr.Pdeathsig != syscall.SIGKILL {
		t.Errorf("Pdeathsig = %v, want SIGKILL", attr.Pdeathsig)
	}
	if len(attr.UidMappings) != 1 || attr.UidMappings[0].ContainerID != 0 {
		t.Errorf("UidMappings = %+v, want single 0-mapped entry", attr.UidMappings)
	}
	if attr.UidMappings[0].HostID != os.Getuid() {
		t.Errorf("UidMappings[0].HostID = %d, want %d", attr.UidMappings[0].HostID, os.Getuid())
	}
	if len(attr.GidMappings) != 1 || attr.GidMappings[0].HostID != os.Getgid() {
		t.Errorf("GidMappings = %+v, want single entry mapped to %d", attr.GidMappings, os.Getgid())
	}
	if attr.GidMappingsEnableSetgroups {
		t.Error("GidMappingsEnableSetgroups must be false")
	}
}

func TestSetHostnameEmptyIsNoop(t *testing.T) {
	if err := SetHostname(""); err != nil {
		t.Errorf("SetHostname(\"\") = %v, want nil", err)
	}
}
