package process

import (
	"os"
	"path/filepath"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// applySysctls writes spec.Linux.Sysctl into /proc/sys, the same
// mapping procfs itself uses between dotted sysctl names and paths
// (net.ipv4.ip_forward -> net/ipv4/ip_forward).
func applySysctls(spec *specs.Spec) error {
	if spec.Linux == nil {
		return nil
	}
	for key, value := range spec.Linux.Sysctl {
		path := filepath.Join("/proc/sys", strings.ReplaceAll(key, ".", "/"))
		if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
			return err
		}
	}
	return nil
}
