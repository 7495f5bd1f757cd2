package mountplan

import (
	"fmt"
	"os"
	"strings"

	"github.com/moby/sys/mountinfo"
	"github.com/moby/sys/symlink"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// Apply executes the plan inside the container's own mount namespace.
// It must run after the mount namespace is unshared and before
// pivot_root's caller treats the container as having a final view of
// the filesystem.
//
// A failure partway through is unwound: every mount Apply actually
// performed up to that point is torn down in reverse order, best
// effort, before the triggering MountFailed error is returned.
// Changes that aren't mounts in their own right -- isolatePropagation's
// "/" remount, pivot_root's directory dance -- are not mount points
// this can undo and are left as is.
func (p *Plan) Apply() error {
	if err := p.isolatePropagation(); err != nil {
		p.unwind()
		return err
	}
	if err := p.bindRootfs(); err != nil {
		p.unwind()
		return err
	}
	for _, s := range p.Steps {
		if err := p.applyStep(s); err != nil {
			p.unwind()
			return err
		}
	}
	if err := p.createDevices(); err != nil {
		p.unwind()
		return err
	}
	if err := p.createDefaultSymlinks(); err != nil {
		p.unwind()
		return err
	}
	if err := p.applyMaskedPaths(); err != nil {
		p.unwind()
		return err
	}
	if err := p.applyReadonlyPaths(); err != nil {
		p.unwind()
		return err
	}
	if err := p.pivot(); err != nil {
		p.unwind()
		return err
	}
	if p.RootReadonly {
		if err := unix.Mount("", "/", "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY, ""); err != nil {
			p.unwind()
			return mountFailed("RootReadonly", "/", "/", err)
		}
	}
	return nil
}

// mountFailed builds the structured error Apply reports for a mount(2)
// failure: which step, what source and target it was mounting, and the
// underlying cause.
func mountFailed(step, source, target string, cause error) error {
	return fire.NewError(fire.KindMountFailed, "mountplan."+step, target,
		fmt.Errorf("source %q: %w", source, cause))
}

// unwind tears down every mount Apply recorded as successful, most
// recent first, on a best-effort basis: a failure here doesn't stop
// the rest of the unwind, since leaving stray mounts behind is already
// the failure mode this exists to limit, not to guarantee against.
func (p *Plan) unwind() {
	for i := len(p.mounted) - 1; i >= 0; i-- {
		unix.Unmount(p.mounted[i], unix.MNT_DETACH)
	}
	p.mounted = nil
}

func (p *Plan) track(target string) {
	p.mounted = append(p.mounted, target)
}

// isolatePropagation makes the whole mount tree a recursive slave
// (MS_SLAVE|MS_REC) before touching anything, the same precaution the
// original runtime took in mounts.rs: without it, mounts performed
// inside the container would leak back out to the host's mount
// namespace.
func (p *Plan) isolatePropagation() error {
	if err := unix.Mount("", "/", "", unix.MS_SLAVE|unix.MS_REC, ""); err != nil {
		return mountFailed("isolatePropagation", "/", "/", err)
	}
	return p.privatizeRootfsParent()
}

// privatizeRootfsParent guards against rootfs living under a mount
// that is still marked shared after the "/" recursive MS_SLAVE above
// -- possible if rootfs's parent was bind-mounted from elsewhere after
// that remount took effect. Walking /proc/self/mountinfo to find the
// closest enclosing mount and checking its "shared:" optional field is
// the same check runc's rootfsParentMountPrivate performs.
func (p *Plan) privatizeRootfsParent() error {
	mounts, err := mountinfo.GetMounts(mountinfo.ParentsFilter(p.Rootfs))
	if err != nil {
		return fire.NewError(fire.KindSystem, "mountplan.privatizeRootfsParent", p.Rootfs, err)
	}
	var closest *mountinfo.Info
	for _, m := range mounts {
		if closest == nil || len(m.Mountpoint) > len(closest.Mountpoint) {
			closest = m
		}
	}
	if closest == nil || !strings.Contains(closest.Optional, "shared:") {
		return nil
	}
	if err := unix.Mount(closest.Mountpoint, closest.Mountpoint, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return mountFailed("privatizeRootfsParent", closest.Mountpoint, closest.Mountpoint, err)
	}
	p.track(closest.Mountpoint)
	if err := unix.Mount("", closest.Mountpoint, "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return mountFailed("privatizeRootfsParent", closest.Mountpoint, closest.Mountpoint, err)
	}
	return nil
}

// bindRootfs bind-mounts the rootfs onto itself so it becomes a mount
// point in its own right, which pivot_root requires: its new_root
// argument must be a mount point, not an arbitrary directory.
func (p *Plan) bindRootfs() error {
	if err := unix.Mount(p.Rootfs, p.Rootfs, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return mountFailed("bindRootfs", p.Rootfs, p.Rootfs, err)
	}
	p.track(p.Rootfs)
	return nil
}

func (p *Plan) applyStep(s Step) error {
	// Resolve the destination against the rootfs as it stands after the
	// preceding steps, so a symlink in the image cannot carry the mount
	// outside it.
	target, err := symlink.FollowSymlinkInScope(s.Target, p.Rootfs)
	if err != nil {
		return mountFailed("applyStep", s.Source, s.Target, err)
	}
	s.Target = target
	if err := os.MkdirAll(s.Target, 0o755); err != nil && !os.IsExist(err) {
		return mountFailed("applyStep", s.Source, s.Target, err)
	}
	if err := unix.Mount(s.Source, s.Target, s.Fstype, s.Flags, s.Data); err != nil {
		return mountFailed("applyStep", s.Source, s.Target, err)
	}
	p.track(s.Target)
	if s.Propagation != 0 {
		if err := unix.Mount("", s.Target, "", s.Propagation, ""); err != nil {
			return mountFailed("applyStep", s.Source, s.Target, err)
		}
	}
	return nil
}

// applyMaskedPaths hides host paths a container should not be able to
// read by bind-mounting them over with /dev/null (files) or an empty
// tmpfs (directories), matching how runtimes neutralize /proc/kcore and
// similar without removing the mount point itself.
func (p *Plan) applyMaskedPaths() error {
	for _, rel := range p.MaskedPaths {
		target, err := safeJoin(p.Rootfs, rel)
		if err != nil {
			return err
		}
		fi, err := os.Stat(target)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return mountFailed("applyMaskedPaths", rel, target, err)
		}
		if fi.IsDir() {
			if err := unix.Mount("tmpfs", target, "tmpfs", unix.MS_RDONLY, ""); err != nil {
				return mountFailed("applyMaskedPaths", "tmpfs", target, err)
			}
			p.track(target)
			continue
		}
		if err := unix.Mount("/dev/null", target, "", unix.MS_BIND, ""); err != nil {
			return mountFailed("applyMaskedPaths", "/dev/null", target, err)
		}
		p.track(target)
	}
	return nil
}

func (p *Plan) applyReadonlyPaths() error {
	for _, rel := range p.ReadonlyPaths {
		target, err := safeJoin(p.Rootfs, rel)
		if err != nil {
			return err
		}
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return mountFailed("applyReadonlyPaths", rel, target, err)
		}
		if err := unix.Mount(target, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return mountFailed("applyReadonlyPaths", target, target, err)
		}
		p.track(target)
		if err := unix.Mount(target, target, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY|unix.MS_REC, ""); err != nil {
			return mountFailed("applyReadonlyPaths", target, target, err)
		}
	}
	return nil
}
