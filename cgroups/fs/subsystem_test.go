package fs

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

func TestCpuGroupRequested(t *testing.T) {
	g := &cpuGroup{}
	if g.requested(nil) {
		t.Error("requested(nil) = true, want false")
	}
	if g.requested(&specs.LinuxResources{}) {
		t.Error("requested(empty) = true, want false")
	}
	shares := uint64(512)
	if !g.requested(&specs.LinuxResources{CPU: &specs.LinuxCPU{Shares: &shares}}) {
		t.Error("requested(shares set) = false, want true")
	}
}

func TestCpusetGroupRequested(t *testing.T) {
	g := &cpusetGroup{}
	if g.requested(&specs.LinuxResources{CPU: &specs.LinuxCPU{}}) {
		t.Error("requested(no cpus/mems) = true, want false")
	}
	if !g.requested(&specs.LinuxResources{CPU: &specs.LinuxCPU{Cpus: "0-3"}}) {
		t.Error("requested(cpus set) = false, want true")
	}
}

func TestMemoryGroupRequested(t *testing.T) {
	g := &memoryGroup{}
	if g.requested(&specs.LinuxResources{}) {
		t.Error("requested(no memory) = true, want false")
	}
	limit := int64(1 << 20)
	if !g.requested(&specs.LinuxResources{Memory: &specs.LinuxMemory{Limit: &limit}}) {
		t.Error("requested(memory set) = false, want true")
	}
}

func TestDevicesGroupRequested(t *testing.T) {
	g := &devicesGroup{}
	if g.requested(&specs.LinuxResources{}) {
		t.Error("requested(no devices) = true, want false")
	}
	if !g.requested(&specs.LinuxResources{Devices: []specs.LinuxDeviceCgroup{{Allow: false}}}) {
		t.Error("requested(devices set) = false, want true")
	}
}

func TestFreezerGroupNeverRequested(t *testing.T) {
	g := &freezerGroup{}
	if g.requested(&specs.LinuxResources{Memory: &specs.LinuxMemory{}}) {
		t.Error("requested() = true, want always false")
	}
}
