// Package nsmanager resolves the OCI Linux namespace list into clone
// flags and join paths, and applies the process-lifecycle details that
// go with certain namespaces: user ID mappings, hostname, and the
// loopback device inside a freshly created network namespace. It
// generalizes libcontainer's namespaces package (a flag<->proc-file
// table plus FinalizeNamespace) from its fixed namespace set to the
// namespaces an individual OCI spec actually requests, and follows the
// fixed creation order from container/namespace.rs: user, pid,
// network, mount, ipc, uts, cgroup.
package nsmanager

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// cloneFlags maps each OCI namespace type to its clone(2)/unshare(2)
// flag.
var cloneFlags = map[specs.LinuxNamespaceType]uintptr{
	specs.UserNamespace:    unix.CLONE_NEWUSER,
	specs.PIDNamespace:     unix.CLONE_NEWPID,
	specs.NetworkNamespace: unix.CLONE_NEWNET,
	specs.MountNamespace:   unix.CLONE_NEWNS,
	specs.IPCNamespace:     unix.CLONE_NEWIPC,
	specs.UTSNamespace:     unix.CLONE_NEWUTS,
	specs.CgroupNamespace:  unix.CLONE_NEWCGROUP,
}

// creationOrder is the fixed order namespaces are created/joined in,
// matching NamespaceManager.create_all: user first (so later
// operations run with the mapped, typically unprivileged, identity in
// mind), pid before the others so the init process becomes pid 1 in
// its own tree before anything else forks, mount last among the
// "setup" namespaces so earlier steps still see the host filesystem.
var creationOrder = []specs.LinuxNamespaceType{
	specs.UserNamespace,
	specs.PIDNamespace,
	specs.NetworkNamespace,
	specs.MountNamespace,
	specs.IPCNamespace,
	specs.UTSNamespace,
	specs.CgroupNamespace,
}

// Set is the resolved namespace configuration for one container:
// which namespaces to create fresh (clone flags) and which to join by
// path (setns targets).
type Set struct {
	CloneFlags uintptr
	JoinPaths  map[specs.LinuxNamespaceType]string
}

// Resolve walks spec.Linux.Namespaces in the fixed creation order,
// separating "create a new one" entries (no Path) from "join this
// existing one" entries (Path set).
func Resolve(spec *specs.Spec) (*Set, error) {
	set := &Set{JoinPaths: map[specs.LinuxNamespaceType]string{}}
	if spec.Linux == nil {
		return set, nil
	}

	requested := map[specs.LinuxNamespaceType]specs.LinuxNamespace{}
	for _, ns := range spec.Linux.Namespaces {
		if _, dup := requested[ns.Type]; dup {
			return nil, fire.Errorf(fire.KindInvalidSpec, "nsmanager.Resolve", string(ns.Type), "namespace type listed more than once")
		}
		requested[ns.Type] = ns
	}

	for _, typ := range creationOrder {
		ns, ok := requested[typ]
		if !ok {
			continue
		}
		flag, known := cloneFlags[typ]
		if !known {
			return nil, fire.Errorf(fire.KindInvalidSpec, "nsmanager.Resolve", string(typ), "unknown namespace type")
		}
		if ns.Path != "" {
			set.JoinPaths[typ] = ns.Path
			continue
		}
		set.CloneFlags |= flag
	}
	return set, nil
}
