package fs

import specs "github.com/opencontainers/runtime-spec/specs-go"

// cpuGroup mirrors libcontainer's CpuGroup: join the cpu controller
// unconditionally so scheduling is fair on a per-container basis, then
// write whichever knobs the spec set.
type cpuGroup struct{}

func (s *cpuGroup) name() string { return "cpu" }

func (s *cpuGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.CPU == nil {
		return nil
	}
	c := r.CPU
	if c.Shares != nil && *c.Shares != 0 {
		if err := writeFileInt(dir, "cpu.shares", int64(*c.Shares)); err != nil {
			return err
		}
	}
	if c.Period != nil && *c.Period != 0 {
		if err := writeFileInt(dir, "cpu.cfs_period_us", int64(*c.Period)); err != nil {
			return err
		}
	}
	if c.Quota != nil && *c.Quota != 0 {
		if err := writeFileInt(dir, "cpu.cfs_quota_us", *c.Quota); err != nil {
			return err
		}
	}
	if c.RealtimePeriod != nil && *c.RealtimePeriod != 0 {
		if err := writeFileInt(dir, "cpu.rt_period_us", int64(*c.RealtimePeriod)); err != nil {
			return err
		}
	}
	if c.RealtimeRuntime != nil && *c.RealtimeRuntime != 0 {
		if err := writeFileInt(dir, "cpu.rt_runtime_us", *c.RealtimeRuntime); err != nil {
			return err
		}
	}
	return nil
}

func (s *cpuGroup) requested(r *specs.LinuxResources) bool {
	if r == nil || r.CPU == nil {
		return false
	}
	c := r.CPU
	return (c.Shares != nil && *c.Shares != 0) ||
		(c.Period != nil && *c.Period != 0) ||
		(c.Quota != nil && *c.Quota != 0) ||
		(c.RealtimePeriod != nil && *c.RealtimePeriod != 0) ||
		(c.RealtimeRuntime != nil && *c.RealtimeRuntime != 0)
}

// cpusetGroup pins the container to a cpu/mem node set. New cpuset
// cgroups start with empty cpuset.cpus/mems, which the kernel rejects
// writes against, so we seed from the parent before applying overrides
// -- the same copy_parent step the original runtime performed.
type cpusetGroup struct{}

func (s *cpusetGroup) name() string { return "cpuset" }

func (s *cpusetGroup) set(dir string, r *specs.LinuxResources) error {
	if err := copyParent(dir, "cpuset.cpus"); err != nil {
		return err
	}
	if err := copyParent(dir, "cpuset.mems"); err != nil {
		return err
	}
	if r == nil || r.CPU == nil {
		return nil
	}
	if r.CPU.Cpus != "" {
		if err := writeFile(dir, "cpuset.cpus", r.CPU.Cpus); err != nil {
			return err
		}
	}
	if r.CPU.Mems != "" {
		if err := writeFile(dir, "cpuset.mems", r.CPU.Mems); err != nil {
			return err
		}
	}
	return nil
}

func (s *cpusetGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.CPU != nil && (r.CPU.Cpus != "" || r.CPU.Mems != "")
}
