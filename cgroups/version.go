package cgroups

import (
	"golang.org/x/sys/unix"
)

const (
	unifiedMountpoint = "/sys/fs/cgroup"
	cgroup2fsMagic    = 0x63677270
)

// Version identifies which cgroup layout the host provides.
type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

// Detect statfs's the cgroup mountpoint the way the original Rust
// runtime checked for cgroup.controllers: a cgroup2 filesystem type
// means a unified hierarchy, anything else means v1's per-controller
// directories under the same mountpoint.
func Detect() (Version, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(unifiedMountpoint, &st); err != nil {
		return 0, err
	}
	if int64(st.Type) == cgroup2fsMagic {
		return V2, nil
	}
	return V1, nil
}

// NewManager builds the Manager appropriate for driver and the host's
// detected cgroup version. path is relative to the controller root
// (v1) or to the unified mountpoint (v2), matching
// specs.Linux.CgroupsPath. The systemdManager argument is not
// consulted: driver alone selects the systemd backend.
func NewManager(driver Driver, path string, systemdManager bool) (Manager, error) {
	v, err := Detect()
	if err != nil {
		return nil, err
	}
	if driver == DriverSystemd {
		return newSystemdManager(path, v == V2)
	}
	if v == V2 {
		return newV2Manager(path), nil
	}
	return newV1Manager(path), nil
}
