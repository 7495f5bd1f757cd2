package process

import (
	"fmt"
	"os"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/fire-runtime/fire/nsmanager"
)

// joinNamespaces enters the mount, UTS, IPC, network and cgroup
// namespaces the spec asked to join by path (as opposed to the ones
// clone(2) already created fresh for this process). User and PID
// namespace paths are not in the join order and are not entered, so a
// spec listing either with a path gets neither a fresh namespace nor
// the named one. Network and UTS namespaces can be joined from a
// single-threaded Go program directly; mount must be joined before
// mountplan.Build/Apply run so later code sees the joined tree.
func joinNamespaces(set *nsmanager.Set) error {
	order := []specs.LinuxNamespaceType{
		specs.MountNamespace,
		specs.UTSNamespace,
		specs.IPCNamespace,
		specs.NetworkNamespace,
		specs.CgroupNamespace,
	}
	for _, typ := range order {
		path, ok := set.JoinPaths[typ]
		if !ok {
			continue
		}
		if err := setns(path, typ); err != nil {
			return fmt.Errorf("join %s namespace %s: %w", typ, path, err)
		}
	}
	return nil
}

func setns(path string, typ specs.LinuxNamespaceType) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return unix.Setns(int(f.Fd()), 0)
}
