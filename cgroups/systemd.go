package cgroups

import (
	"context"
	"fmt"
	"strings"

	dbus "github.com/coreos/go-systemd/v22/dbus"
	godbus "github.com/godbus/dbus/v5"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// systemdManager manages a container's cgroup as a systemd transient
// scope unit rather than writing the hierarchy directly, for hosts
// where systemd expects to own cgroup placement. Resource limits are
// still applied with direct v1/v2 writes once the scope exists, since
// the properties systemd exposes for StartTransientUnit don't cover
// every OCI resource field fire supports.
type systemdManager struct {
	unitName string
	slice    string
	conn     *dbus.Conn
	inner    Manager
}

func newSystemdManager(path string, useV2 bool) (Manager, error) {
	conn, err := dbus.NewWithContext(context.Background())
	if err != nil {
		return nil, fmt.Errorf("cgroups: connect to systemd: %w", err)
	}

	unitName := "fire-" + strings.ReplaceAll(strings.Trim(path, "/"), "/", "-") + ".scope"
	var inner Manager
	if useV2 {
		inner = newV2Manager(scopeCgroupPath(unitName))
	} else {
		inner = newV1Manager(scopeCgroupPath(unitName))
	}
	return &systemdManager{unitName: unitName, slice: "fire.slice", conn: conn, inner: inner}, nil
}

// scopeCgroupPath is where systemd places a scope's cgroup under the
// unified or legacy hierarchy: <slice-path>/<unit>.scope.
func scopeCgroupPath(unitName string) string {
	return "/fire.slice/" + unitName
}

func (m *systemdManager) Apply(pid int) error {
	props := []dbus.Property{
		dbus.PropDescription("fire container scope " + m.unitName),
		dbus.PropPids(uint32(pid)),
		dbus.PropSlice(m.slice),
		newProperty("Delegate", true),
	}

	ch := make(chan string, 1)
	if _, err := m.conn.StartTransientUnitContext(context.Background(), m.unitName, "replace", props, ch); err != nil {
		return fmt.Errorf("cgroups: start transient unit %s: %w", m.unitName, err)
	}
	<-ch
	return nil
}

func newProperty(name string, value any) dbus.Property {
	return dbus.Property{Name: name, Value: godbus.MakeVariant(value)}
}

func (m *systemdManager) Set(r *specs.LinuxResources) error { return m.inner.Set(r) }
func (m *systemdManager) Freeze() error                     { return m.inner.Freeze() }
func (m *systemdManager) Thaw() error                        { return m.inner.Thaw() }
func (m *systemdManager) Procs() ([]int, error)              { return m.inner.Procs() }
func (m *systemdManager) Path() string { return m.inner.Path() }

func (m *systemdManager) Destroy() error {
	ch := make(chan string, 1)
	if _, err := m.conn.StopUnitContext(context.Background(), m.unitName, "replace", ch); err != nil {
		return fmt.Errorf("cgroups: stop unit %s: %w", m.unitName, err)
	}
	<-ch
	m.conn.Close()
	return nil
}
