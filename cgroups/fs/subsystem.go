package fs

import specs "github.com/opencontainers/runtime-spec/specs-go"

// subsystem is one v1 controller. dir is the controller's absolute
// cgroup directory for this container (already created).
type subsystem interface {
	name() string
	set(dir string, r *specs.LinuxResources) error
	// requested reports whether r asks this controller to do anything,
	// distinguishing a host that simply lacks the controller (fine, as
	// long as nothing asked for it) from one that lacks a controller
	// the spec needs.
	requested(r *specs.LinuxResources) bool
}

// subsystems lists every controller fire joins, in the fixed order the
// original runtime's CGROUPS table iterated them. Order doesn't affect
// correctness here (each controller is independent) but keeping it
// fixed makes cgroup.procs writes deterministic across runs.
var subsystems = []subsystem{
	&cpusetGroup{},
	&cpuGroup{},
	&memoryGroup{},
	&pidsGroup{},
	&devicesGroup{},
	&blkioGroup{},
	&netClsGroup{},
	&netPrioGroup{},
	&hugetlbGroup{},
	&freezerGroup{},
}
