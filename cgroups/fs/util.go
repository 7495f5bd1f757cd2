// Package fs implements cgroup v1 management: a fixed hierarchy of
// per-controller directories under /sys/fs/cgroup/<controller>, each
// written to directly. It generalizes libcontainer's
// cgroups/fs/cpu.go (one file per controller, Apply/Set/Remove/
// GetStats) into a table of controllers dispatched the way the
// CGROUPS map dispatched cpuset/cpu/memory/devices/blkio/pids/
// net_cls/net_prio/hugetlb.
package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const root = "/sys/fs/cgroup"

func writeFile(dir, file, data string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, file), []byte(data), 0o644)
}

func writeFileInt(dir, file string, v int64) error {
	return writeFile(dir, file, strconv.FormatInt(v, 10))
}

func readFile(dir, file string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// copyParent copies a cpuset knob from the parent cgroup, required
// before a freshly-created cpuset cgroup can be populated: the kernel
// refuses writes to cpuset.cpus/cpuset.mems until they hold a valid
// (non-empty) value, and a new cgroup starts out empty.
func copyParent(dir, file string) error {
	parent := filepath.Dir(dir)
	v, err := readFile(parent, file)
	if err != nil {
		return err
	}
	if v == "" {
		return nil
	}
	return writeFile(dir, file, v)
}

func readProcs(dir string) ([]int, error) {
	f, err := os.Open(filepath.Join(dir, "cgroup.procs"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var procs []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("cgroup.procs: %w", err)
		}
		procs = append(procs, pid)
	}
	return procs, sc.Err()
}
