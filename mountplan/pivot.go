package mountplan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/mount"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// pivot performs the pivot_root dance: the rootfs becomes "/", the old
// root is relocated to a temporary directory under the new root long
// enough to unmount it, then that temporary directory is removed. This
// is the same sequence mounts.rs used, adapted to moby/sys/mount's
// RecursiveUnmount for the detach step instead of a raw umount2 call.
func (p *Plan) pivot() error {
	oldRoot, err := os.MkdirTemp(p.Rootfs, ".fire-oldroot-")
	if err != nil {
		return fire.NewError(fire.KindPivotFailed, "mountplan.pivot", p.Rootfs, err)
	}

	if err := unix.PivotRoot(p.Rootfs, oldRoot); err != nil {
		os.Remove(oldRoot)
		return fire.NewError(fire.KindPivotFailed, "mountplan.pivot", p.Rootfs, fmt.Errorf("pivot_root: %w", err))
	}

	if err := unix.Chdir("/"); err != nil {
		return fire.NewError(fire.KindPivotFailed, "mountplan.pivot", "/", err)
	}

	oldRootInNewRoot := filepath.Join("/", filepath.Base(oldRoot))
	if err := mount.RecursiveUnmount(oldRootInNewRoot); err != nil {
		return fire.NewError(fire.KindPivotFailed, "mountplan.pivot", oldRootInNewRoot, err)
	}
	if err := os.RemoveAll(oldRootInNewRoot); err != nil {
		return fire.NewError(fire.KindPivotFailed, "mountplan.pivot", oldRootInNewRoot, err)
	}
	return nil
}
