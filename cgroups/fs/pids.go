package fs

import (
	"strconv"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

type pidsGroup struct{}

func (s *pidsGroup) name() string { return "pids" }

func (s *pidsGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.Pids == nil {
		return nil
	}
	limit := "max"
	if r.Pids.Limit > 0 {
		limit = strconv.FormatInt(r.Pids.Limit, 10)
	}
	return writeFile(dir, "pids.max", limit)
}

func (s *pidsGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.Pids != nil
}
