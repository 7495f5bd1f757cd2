package fs

import specs "github.com/opencontainers/runtime-spec/specs-go"

type memoryGroup struct{}

func (s *memoryGroup) name() string { return "memory" }

func (s *memoryGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.Memory == nil {
		return nil
	}
	m := r.Memory
	// Soft limit must land before the hard limit, or the kernel may
	// reject a reservation that's above a limit it already applied.
	if m.Reservation != nil {
		if err := writeFileInt(dir, "memory.soft_limit_in_bytes", *m.Reservation); err != nil {
			return err
		}
	}
	if m.Limit != nil {
		if err := writeFileInt(dir, "memory.limit_in_bytes", *m.Limit); err != nil {
			return err
		}
	}
	if m.Swap != nil {
		if err := writeFileInt(dir, "memory.memsw.limit_in_bytes", *m.Swap); err != nil {
			return err
		}
	}
	if m.Kernel != nil {
		if err := writeFileInt(dir, "memory.kmem.limit_in_bytes", *m.Kernel); err != nil {
			return err
		}
	}
	if m.DisableOOMKiller != nil {
		v := int64(0)
		if *m.DisableOOMKiller {
			v = 1
		}
		if err := writeFileInt(dir, "memory.oom_control", v); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.Memory != nil
}
