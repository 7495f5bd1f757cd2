package fs

import (
	"strconv"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

type netClsGroup struct{}

func (s *netClsGroup) name() string { return "net_cls" }

func (s *netClsGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.Network == nil || r.Network.ClassID == nil {
		return nil
	}
	return writeFileInt(dir, "net_cls.classid", int64(*r.Network.ClassID))
}

func (s *netClsGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.Network != nil && r.Network.ClassID != nil
}

type netPrioGroup struct{}

func (s *netPrioGroup) name() string { return "net_prio" }

func (s *netPrioGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.Network == nil {
		return nil
	}
	for _, p := range r.Network.Priorities {
		line := p.Name + " " + strconv.FormatUint(uint64(p.Priority), 10)
		if err := writeFile(dir, "net_prio.ifpriomap", line); err != nil {
			return err
		}
	}
	return nil
}

func (s *netPrioGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.Network != nil && len(r.Network.Priorities) > 0
}
