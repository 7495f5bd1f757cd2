package fs

import (
	"fmt"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// devicesGroup writes the spec's device cgroup rules, each in order to
// devices.deny or devices.allow, since those files are append-only and
// order-sensitive. It writes no implicit deny-all rule of its own: the
// controller starts denying everything only if the spec's rules begin
// with one.
type devicesGroup struct{}

func (s *devicesGroup) name() string { return "devices" }

func (s *devicesGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil {
		return nil
	}
	for _, d := range r.Devices {
		rule := deviceRule(d)
		file := "devices.deny"
		if d.Allow {
			file = "devices.allow"
		}
		if err := writeFile(dir, file, rule); err != nil {
			return err
		}
	}
	return nil
}

func (s *devicesGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && len(r.Devices) > 0
}

func deviceRule(d specs.LinuxDeviceCgroup) string {
	typ := d.Type
	if typ == "" {
		typ = "a"
	}
	major, minor := "*", "*"
	if d.Major != nil {
		major = fmt.Sprintf("%d", *d.Major)
	}
	if d.Minor != nil {
		minor = fmt.Sprintf("%d", *d.Minor)
	}
	access := d.Access
	if access == "" {
		access = "rwm"
	}
	return fmt.Sprintf("%s %s:%s %s", typ, major, minor, access)
}
