package nsmanager

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	fire "github.com/fire-runtime/fire"
)

// WriteIDMappings writes a just-created child's uid_map and gid_map.
// The order matters: uid_map can be written by an unprivileged parent
// with no extra step, but gid_map cannot until this process's
// setgroups file has been set to "deny" -- CVE-2014-8989's fix means
// the kernel refuses to let an unprivileged process retain the
// ability to drop to an arbitrary mapped gid via setgroups once
// gid_map is writable, so setgroups must be denied first.
func WriteIDMappings(pid int, uidMappings, gidMappings []specs.LinuxIDMapping) error {
	procDir := filepath.Join("/proc", strconv.Itoa(pid))

	if err := writeMapping(filepath.Join(procDir, "uid_map"), uidMappings); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(procDir, "setgroups"), []byte("deny"), 0o644); err != nil {
		return fire.NewError(mappingFailureKind(err), "nsmanager.WriteIDMappings", procDir, err)
	}
	if err := writeMapping(filepath.Join(procDir, "gid_map"), gidMappings); err != nil {
		return err
	}
	return nil
}

func writeMapping(path string, mappings []specs.LinuxIDMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	var body string
	for _, m := range mappings {
		body += fmt.Sprintf("%d %d %d\n", m.ContainerID, m.HostID, m.Size)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fire.NewError(mappingFailureKind(err), "nsmanager.writeMapping", path, err)
	}
	return nil
}

// mappingFailureKind distinguishes a mapping the kernel rejected
// because this process isn't entitled to claim those ids (the common
// case: a range outside /etc/sub{u,g}id without CAP_SETUID/CAP_SETGID
// in the parent's own namespace) from any other namespace-plumbing
// failure.
func mappingFailureKind(err error) fire.Kind {
	if os.IsPermission(err) {
		return fire.KindPermissionDenied
	}
	return fire.KindNamespaceFailed
}
