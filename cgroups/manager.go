// Package cgroups applies OCI LinuxResources to a container's cgroup,
// dispatching between the v1 (per-controller hierarchy) and v2 (unified
// hierarchy) layouts the way libcontainer's cgroups/fs package
// dispatched across per-subsystem Apply/Set/Remove, and adds a
// systemd-managed driver for hosts that require transient scope units
// instead of raw filesystem writes.
package cgroups

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Manager creates, configures, and tears down the cgroup a container's
// processes run under.
type Manager interface {
	// Apply creates the cgroup (if needed) and moves pid into it.
	Apply(pid int) error
	// Set (re)applies resource limits to the already-created cgroup.
	Set(resources *specs.LinuxResources) error
	// Freeze and Thaw pause/resume every process in the cgroup.
	Freeze() error
	Thaw() error
	// Procs returns the pids currently in the cgroup.
	Procs() ([]int, error)
	// Path returns the cgroup's path, for diagnostics and state records.
	Path() string
	// Destroy removes the cgroup. It must tolerate being called on a
	// cgroup that was never created.
	Destroy() error
}

// Driver selects how a Manager is implemented.
type Driver string

const (
	// DriverCgroupfs manages cgroups with direct filesystem writes,
	// choosing v1 or v2 layout based on what the host has mounted.
	DriverCgroupfs Driver = "cgroupfs"
	// DriverSystemd manages cgroups indirectly via systemd transient
	// scope units, for hosts where systemd owns the hierarchy.
	DriverSystemd Driver = "systemd"
)
