package fs

import specs "github.com/opencontainers/runtime-spec/specs-go"

type hugetlbGroup struct{}

func (s *hugetlbGroup) name() string { return "hugetlb" }

func (s *hugetlbGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil {
		return nil
	}
	for _, h := range r.HugepageLimits {
		file := "hugetlb." + h.Pagesize + ".limit_in_bytes"
		if err := writeFileInt(dir, file, int64(h.Limit)); err != nil {
			return err
		}
	}
	return nil
}

func (s *hugetlbGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && len(r.HugepageLimits) > 0
}
