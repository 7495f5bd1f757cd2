package process

import (
	"strings"

	"github.com/moby/sys/capability"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// capsByName resolves the OCI "CAP_XXX" spelling to moby/sys/capability
// constants. The library's own constants use the same spelling minus
// the namespace, e.g. capability.CAP_NET_ADMIN for "CAP_NET_ADMIN".
var capsByName = map[string]capability.Cap{
	"CAP_CHOWN":            capability.CAP_CHOWN,
	"CAP_DAC_OVERRIDE":     capability.CAP_DAC_OVERRIDE,
	"CAP_DAC_READ_SEARCH":  capability.CAP_DAC_READ_SEARCH,
	"CAP_FOWNER":           capability.CAP_FOWNER,
	"CAP_FSETID":           capability.CAP_FSETID,
	"CAP_KILL":             capability.CAP_KILL,
	"CAP_SETGID":           capability.CAP_SETGID,
	"CAP_SETUID":           capability.CAP_SETUID,
	"CAP_SETPCAP":          capability.CAP_SETPCAP,
	"CAP_LINUX_IMMUTABLE":  capability.CAP_LINUX_IMMUTABLE,
	"CAP_NET_BIND_SERVICE": capability.CAP_NET_BIND_SERVICE,
	"CAP_NET_BROADCAST":    capability.CAP_NET_BROADCAST,
	"CAP_NET_ADMIN":        capability.CAP_NET_ADMIN,
	"CAP_NET_RAW":          capability.CAP_NET_RAW,
	"CAP_IPC_LOCK":         capability.CAP_IPC_LOCK,
	"CAP_IPC_OWNER":        capability.CAP_IPC_OWNER,
	"CAP_SYS_MODULE":       capability.CAP_SYS_MODULE,
	"CAP_SYS_RAWIO":        capability.CAP_SYS_RAWIO,
	"CAP_SYS_CHROOT":       capability.CAP_SYS_CHROOT,
	"CAP_SYS_PTRACE":       capability.CAP_SYS_PTRACE,
	"CAP_SYS_PACCT":        capability.CAP_SYS_PACCT,
	"CAP_SYS_ADMIN":        capability.CAP_SYS_ADMIN,
	"CAP_SYS_BOOT":         capability.CAP_SYS_BOOT,
	"CAP_SYS_NICE":         capability.CAP_SYS_NICE,
	"CAP_SYS_RESOURCE":     capability.CAP_SYS_RESOURCE,
	"CAP_SYS_TIME":         capability.CAP_SYS_TIME,
	"CAP_SYS_TTY_CONFIG":   capability.CAP_SYS_TTY_CONFIG,
	"CAP_MKNOD":            capability.CAP_MKNOD,
	"CAP_LEASE":            capability.CAP_LEASE,
	"CAP_AUDIT_WRITE":      capability.CAP_AUDIT_WRITE,
	"CAP_AUDIT_CONTROL":    capability.CAP_AUDIT_CONTROL,
	"CAP_SETFCAP":          capability.CAP_SETFCAP,
	"CAP_MAC_OVERRIDE":     capability.CAP_MAC_OVERRIDE,
	"CAP_MAC_ADMIN":        capability.CAP_MAC_ADMIN,
	"CAP_SYSLOG":           capability.CAP_SYSLOG,
	"CAP_WAKE_ALARM":       capability.CAP_WAKE_ALARM,
	"CAP_BLOCK_SUSPEND":    capability.CAP_BLOCK_SUSPEND,
	"CAP_AUDIT_READ":       capability.CAP_AUDIT_READ,
}

// dropCapabilities reduces this process's capability sets to exactly
// what caps grants, clearing everything first, then applying all five
// OCI buckets in one pass since capability.Apply can set them
// together. Called while still root, before the uid/gid switch: the
// caller is responsible for holding PR_SET_KEEPCAPS across that switch
// so the narrowed set set here survives it, the way FinalizeNamespace's
// SetKeepCaps/ClearKeepCaps bracketed its own uid change.
func dropCapabilities(caps *specs.LinuxCapabilities) error {
	if caps == nil {
		return nil
	}
	c, err := capability.NewPid2(0)
	if err != nil {
		return err
	}
	if err := c.Load(); err != nil {
		return err
	}

	c.Clear(capability.CAPS | capability.BOUNDS | capability.AMBS)
	setBucket(c, capability.BOUNDING, caps.Bounding)
	setBucket(c, capability.EFFECTIVE, caps.Effective)
	setBucket(c, capability.PERMITTED, caps.Permitted)
	setBucket(c, capability.INHERITABLE, caps.Inheritable)
	setBucket(c, capability.AMBIENT, caps.Ambient)

	return c.Apply(capability.CAPS | capability.BOUNDS | capability.AMBS)
}

func setBucket(c capability.Capabilities, which capability.CapType, names []string) {
	for _, name := range names {
		cap, ok := capsByName[strings.ToUpper(name)]
		if !ok {
			continue
		}
		c.Set(which, cap)
	}
}
