// Package mountplan builds and applies the ordered sequence of mount
// operations that turn an OCI bundle's rootfs into a container's view
// of the filesystem: private propagation, the bind-mounted rootfs
// itself, every spec.Mounts entry in order, the device nodes listed in
// spec.Linux.Devices (no default set such as /dev/null is added) and
// the /dev/fd and stdio symlinks, masked/readonly paths, and finally
// pivot_root. It is
// grounded on mounts.rs's step ordering and option table, with the Go
// shape -- a Plan built once and Applied inside the child -- following
// libcontainer's habit of separating configuration from the syscalls
// that act on it (process.go's ProcessConfig vs createCommand).
package mountplan

import (
	"path/filepath"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// Step is one mount(2)-level operation to run, in order, inside the
// container's mount namespace.
type Step struct {
	Source      string
	Target      string
	Fstype      string
	Flags       uintptr
	Propagation uintptr
	Data        string
}

// Plan is the fully-resolved sequence of mount operations for one
// container, plus the bookkeeping pivot_root needs afterward.
type Plan struct {
	Rootfs        string
	Steps         []Step
	Devices       []specs.LinuxDevice
	MaskedPaths   []string
	ReadonlyPaths []string
	Label         string
	RootReadonly  bool
	Propagation   uintptr

	// mounted records, in the order Apply performed them, every mount
	// point it actually created, so a later failure can unwind them in
	// reverse.
	mounted []string
}

// Build resolves a spec into a Plan. It does not touch the filesystem;
// Apply does.
func Build(spec *specs.Spec) (*Plan, error) {
	rootfs := spec.Root.Path
	if !filepath.IsAbs(rootfs) {
		return nil, fire.Errorf(fire.KindInvalidSpec, "mountplan.Build", rootfs, "root.path must be absolute by the time mountplan runs")
	}

	plan := &Plan{
		Rootfs:       rootfs,
		RootReadonly: spec.Root.Readonly,
		Propagation:  unix.MS_REC | unix.MS_PRIVATE,
	}
	if spec.Linux != nil {
		plan.MaskedPaths = spec.Linux.MaskedPaths
		plan.ReadonlyPaths = spec.Linux.ReadonlyPaths
		plan.Devices = spec.Linux.Devices
		plan.Label = spec.Linux.MountLabel
		if spec.Linux.RootfsPropagation != "" {
			if p, ok := propagationOptions[spec.Linux.RootfsPropagation]; ok {
				plan.Propagation = p
			}
		}
	}

	for _, m := range spec.Mounts {
		flags, prop, data := parseOptions(m.Options)
		target := m.Destination
		if !filepath.IsAbs(target) {
			return nil, fire.Errorf(fire.KindInvalidSpec, "mountplan.Build", target, "mount destination must be absolute")
		}
		plan.Steps = append(plan.Steps, Step{
			Source:      m.Source,
			Target:      filepath.Join(rootfs, target),
			Fstype:      m.Type,
			Flags:       flags,
			Propagation: prop,
			Data:        joinData(data),
		})
	}
	return plan, nil
}

func joinData(data []string) string {
	out := ""
	for i, d := range data {
		if i > 0 {
			out += ","
		}
		out += d
	}
	return out
}
