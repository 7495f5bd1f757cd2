package fs

import (
	"os"
	"path/filepath"
	"strconv"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	fire "github.com/fire-runtime/fire"
)

// Manager is the v1 cgroupfs.Manager: it joins one directory per
// controller under root/<controller>/<path> and fans resource
// application out across the subsystems table, mirroring how
// libcontainer's cgroups/fs package joined "cpu" unconditionally
// before writing any limits.
type Manager struct {
	path string
}

// New returns a v1 Manager for the given cgroup path (relative to each
// controller's root, e.g. "/fire/<id>").
func New(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) dir(controller string) string {
	return filepath.Join(root, controller, m.path)
}

func (m *Manager) Apply(pid int) error {
	for _, sub := range subsystems {
		dir := m.dir(sub.name())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			if os.IsNotExist(err) {
				// controller not mounted on this host; skip it.
				continue
			}
			return err
		}
		if err := writeFile(dir, "cgroup.procs", strconv.Itoa(pid)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) Set(r *specs.LinuxResources) error {
	for _, sub := range subsystems {
		dir := m.dir(sub.name())
		if _, err := os.Stat(dir); err != nil {
			// Missing controllers are only ignorable when the spec
			// doesn't ask them for anything; a host lacking a
			// controller the spec actually needs can't silently
			// pretend the limit was applied.
			if sub.requested(r) {
				return fire.NewError(fire.KindControllerUnavailable, "cgroups/fs.Set", sub.name(), err)
			}
			continue
		}
		if err := sub.set(dir, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) Freeze() error {
	return writeFile(m.dir("freezer"), "freezer.state", "FROZEN")
}

func (m *Manager) Thaw() error {
	return writeFile(m.dir("freezer"), "freezer.state", "THAWED")
}

func (m *Manager) Procs() ([]int, error) {
	return readProcs(m.dir("cpu"))
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) Destroy() error {
	var firstErr error
	for _, sub := range subsystems {
		if err := os.Remove(m.dir(sub.name())); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
