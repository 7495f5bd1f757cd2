package mountplan

import "golang.org/x/sys/unix"

// flagOpt is one fstab-style mount option: whether it sets or clears
// flag, e.g. "noatime" sets MS_NOATIME but "atime" clears it. The table
// mirrors the OPTIONS map the original runtime's mounts.rs parsed spec
// mount options against.
type flagOpt struct {
	clear bool
	flag  uintptr
}

var flagOptions = map[string]flagOpt{
	"acl":          {false, 0},
	"async":        {true, unix.MS_SYNCHRONOUS},
	"atime":        {true, unix.MS_NOATIME},
	"bind":         {false, unix.MS_BIND},
	"defaults":     {false, 0},
	"dev":          {true, unix.MS_NODEV},
	"diratime":     {true, unix.MS_NODIRATIME},
	"dirsync":      {false, unix.MS_DIRSYNC},
	"exec":         {true, unix.MS_NOEXEC},
	"mand":         {false, unix.MS_MANDLOCK},
	"noatime":      {false, unix.MS_NOATIME},
	"nodev":        {false, unix.MS_NODEV},
	"nodiratime":   {false, unix.MS_NODIRATIME},
	"noexec":       {false, unix.MS_NOEXEC},
	"nomand":       {true, unix.MS_MANDLOCK},
	"norelatime":   {true, unix.MS_RELATIME},
	"nostrictatime": {true, unix.MS_STRICTATIME},
	"nosuid":       {false, unix.MS_NOSUID},
	"rbind":        {false, unix.MS_BIND | unix.MS_REC},
	"relatime":     {false, unix.MS_RELATIME},
	"remount":      {false, unix.MS_REMOUNT},
	"ro":           {false, unix.MS_RDONLY},
	"rw":           {true, unix.MS_RDONLY},
	"strictatime":  {false, unix.MS_STRICTATIME},
	"suid":         {true, unix.MS_NOSUID},
	"sync":         {false, unix.MS_SYNCHRONOUS},
}

// propagationOptions covers the mount propagation options, which must
// be applied in a separate unix.Mount call from the rest of the flags
// (the kernel rejects combining MS_PRIVATE/MS_SHARED/MS_SLAVE with most
// other flags in a single mount(2) call).
var propagationOptions = map[string]uintptr{
	"private":    unix.MS_PRIVATE,
	"rprivate":   unix.MS_PRIVATE | unix.MS_REC,
	"shared":     unix.MS_SHARED,
	"rshared":    unix.MS_SHARED | unix.MS_REC,
	"slave":      unix.MS_SLAVE,
	"rslave":     unix.MS_SLAVE | unix.MS_REC,
	"unbindable": unix.MS_UNBINDABLE,
	"runbindable": unix.MS_UNBINDABLE | unix.MS_REC,
}

// parseOptions splits a mount's Options into (flags, propagation,
// extra data passed verbatim to mount(2), e.g. "mode=755").
func parseOptions(options []string) (flags uintptr, propagation uintptr, data []string) {
	for _, o := range options {
		if p, ok := propagationOptions[o]; ok {
			propagation |= p
			continue
		}
		if f, ok := flagOptions[o]; ok {
			if f.clear {
				flags &^= f.flag
			} else {
				flags |= f.flag
			}
			continue
		}
		data = append(data, o)
	}
	return flags, propagation, data
}
