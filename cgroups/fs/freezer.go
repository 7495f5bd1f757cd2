package fs

import specs "github.com/opencontainers/runtime-spec/specs-go"

// freezerGroup only needs to exist so the manager joins it up front;
// freezer.state is written directly by Manager.Freeze/Thaw, not from
// LinuxResources.
type freezerGroup struct{}

func (s *freezerGroup) name() string { return "freezer" }

func (s *freezerGroup) set(dir string, r *specs.LinuxResources) error { return nil }

// requested is always false: freezer.state is driven by Manager.Freeze/
// Thaw, never by LinuxResources, so a missing freezer controller never
// blocks applying resources.
func (s *freezerGroup) requested(r *specs.LinuxResources) bool { return false }
