package nsmanager

import (
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// CheckFlags rejects one clone-flag combination, mirroring
// checkNamespaceFlags: a user namespace (CLONE_NEWUSER) without a mount
// namespace (CLONE_NEWNS), which would leave the container able to see
// (though not touch) the host's mount table. The kernel itself accepts
// that combination; refusing it is fire's own rule. Every other
// combination passes.
func CheckFlags(flags uintptr) error {
	if flags&unix.CLONE_NEWUSER != 0 && flags&unix.CLONE_NEWNS == 0 {
		return fire.Errorf(fire.KindInvalidSpec, "nsmanager.CheckFlags", "", "user namespace requires a mount namespace")
	}
	return nil
}

// Hostname applies spec.Hostname inside the new UTS namespace. Must
// run after CLONE_NEWUTS has taken effect for the calling process
// (i.e. inside the child, after unshare/clone, before exec).
func Hostname(name string) error {
	if name == "" {
		return nil
	}
	if err := unix.Sethostname([]byte(name)); err != nil {
		return fire.NewError(fire.KindNamespaceFailed, "nsmanager.Hostname", name, err)
	}
	return nil
}
