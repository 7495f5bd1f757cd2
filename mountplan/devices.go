package mountplan

import (
	"os"
	"path/filepath"

	"github.com/moby/sys/symlink"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// defaultSymlinks are the symlinks every Linux container needs inside
// /dev regardless of what the spec's Devices list contains.
var defaultSymlinks = map[string]string{
	"/proc/self/fd":   "fd",
	"/proc/self/fd/0": "stdin",
	"/proc/self/fd/1": "stdout",
	"/proc/self/fd/2": "stderr",
}

func (p *Plan) createDevices() error {
	devDir := filepath.Join(p.Rootfs, "dev")
	if err := os.MkdirAll(devDir, 0o755); err != nil {
		return fire.NewError(fire.KindSystem, "mountplan.createDevices", devDir, err)
	}

	for _, d := range p.Devices {
		target, err := safeJoin(p.Rootfs, d.Path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fire.NewError(fire.KindSystem, "mountplan.createDevices", target, err)
		}

		mode := uint32(0o666)
		if d.FileMode != nil {
			mode = uint32(*d.FileMode)
		}
		dev := unix.Mkdev(uint32(d.Major), uint32(d.Minor))

		var fileType uint32
		switch d.Type {
		case "c", "u":
			fileType = unix.S_IFCHR
		case "b":
			fileType = unix.S_IFBLK
		case "p":
			fileType = unix.S_IFIFO
		default:
			continue
		}

		if err := unix.Mknod(target, fileType|mode, int(dev)); err != nil {
			if err == unix.EPERM {
				// Creating device nodes needs CAP_MKNOD in the
				// initial user namespace; fall back to bind-mounting
				// the host node, the same fallback runtimes without
				// that capability rely on.
				if err := bindDeviceFromHost(d.Path, target); err != nil {
					return err
				}
				p.track(target)
				continue
			}
			return fire.NewError(fire.KindSystem, "mountplan.createDevices", target, err)
		}
		if d.UID != nil && d.GID != nil {
			if err := unix.Chown(target, int(*d.UID), int(*d.GID)); err != nil {
				return fire.NewError(fire.KindSystem, "mountplan.createDevices", target, err)
			}
		}
	}
	return nil
}

func bindDeviceFromHost(hostPath, target string) error {
	if _, err := os.Create(target); err != nil && !os.IsExist(err) {
		return fire.NewError(fire.KindSystem, "mountplan.bindDeviceFromHost", target, err)
	}
	if err := unix.Mount(hostPath, target, "", unix.MS_BIND, ""); err != nil {
		return fire.NewError(fire.KindSystem, "mountplan.bindDeviceFromHost", target, err)
	}
	return nil
}

func (p *Plan) createDefaultSymlinks() error {
	for target, linkName := range defaultSymlinks {
		dest := filepath.Join(p.Rootfs, "dev", linkName)
		if err := os.Symlink(target, dest); err != nil && !os.IsExist(err) {
			return fire.NewError(fire.KindSystem, "mountplan.createDefaultSymlinks", dest, err)
		}
	}
	return nil
}

// safeJoin resolves rel against root the way moby/sys/symlink does for
// bind-mount targets elsewhere in this package: it refuses to let a
// malicious spec walk a device or mount destination out of the rootfs
// via "../" components or symlinks planted inside an image.
func safeJoin(root, rel string) (string, error) {
	resolved, err := symlink.FollowSymlinkInScope(filepath.Join(root, rel), root)
	if err != nil {
		return "", fire.NewError(fire.KindInvalidSpec, "mountplan.safeJoin", rel, err)
	}
	return resolved, nil
}
