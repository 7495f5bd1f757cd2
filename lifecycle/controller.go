// Package lifecycle implements the OCI runtime operations
// (create/start/kill/delete/state/list) as a state machine over a
// store.Record, the same role linuxContainer played in
// container_linux.go but spread across fire's specs/store/cgroups/
// mountplan/nsmanager/process packages instead of one cgo-heavy type.
package lifecycle

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/process"
	"github.com/fire-runtime/fire/specs"
	"github.com/fire-runtime/fire/store"
)

// idPattern is the set of characters a container id may use; it keeps
// ids out of both the state root's and the cgroup parent's path
// construction, where a value like "../../etc" would otherwise escape
// the intended directory.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// killWait bounds how long Delete(force) waits for a killed init
// process to exit before giving up and tearing down its state anyway.
var killWait = 5 * time.Second

// Controller operates on containers rooted at a single state
// directory. It holds no per-container state of its own -- everything
// that survives a restart lives in the Store -- so, unlike the
// original runtime's RuntimeManager singleton, a Controller can be
// constructed fresh for every CLI invocation without losing anything.
type Controller struct {
	store  *store.Store
	driver cgroups.Driver
	parent string
}

// New returns a Controller persisting state under stateRoot, applying
// cgroups under cgroupParent (e.g. "/fire") using driver.
func New(stateRoot string, driver cgroups.Driver, cgroupParent string) (*Controller, error) {
	s, err := store.New(stateRoot)
	if err != nil {
		return nil, err
	}
	return &Controller{store: s, driver: driver, parent: cgroupParent}, nil
}

func cgroupsPath(parent, id string) string {
	if parent == "" {
		parent = "/fire"
	}
	return parent + "/" + id
}

// Create validates the bundle, builds every component needed to run
// its process, and blocks until the container's init process is
// waiting at the pre-exec barrier. It does not start the user's
// command; Start does that.
func (c *Controller) Create(ctx context.Context, id, bundle string) (*store.Record, error) {
	if !idPattern.MatchString(id) {
		return nil, fire.Errorf(fire.KindInvalidSpec, "lifecycle.Create", id, "container id must match %s", idPattern)
	}
	if _, err := c.store.Load(id); err == nil {
		return nil, fire.Errorf(fire.KindAlreadyExists, "lifecycle.Create", id, "container already exists")
	}

	spec, err := specs.Load(bundle)
	if err != nil {
		return nil, err
	}
	if err := specs.RootfsExists(spec); err != nil {
		return nil, err
	}

	path := cgroupsPath(c.parent, id)
	if spec.Linux != nil && spec.Linux.CgroupsPath != nil && *spec.Linux.CgroupsPath != "" {
		path = *spec.Linux.CgroupsPath
	}
	mgr, err := cgroups.NewManager(c.driver, path, c.driver == cgroups.DriverSystemd)
	if err != nil {
		return nil, fire.NewError(fire.KindSystem, "lifecycle.Create", id, err)
	}

	rec := &store.Record{
		ID:          id,
		Bundle:      bundle,
		Rootfs:      spec.Root.Path,
		Status:      store.StatusCreating,
		CgroupsPath: path,
	}
	if err := c.store.Create(rec); err != nil {
		return nil, err
	}

	launcher := process.NewLauncher(spec, mgr, c.store.ExecFifoPath(id))
	done := make(chan createResult, 1)
	go func() {
		pid, err := launcher.Create()
		done <- createResult{pid: pid, err: err}
	}()

	select {
	case <-ctx.Done():
		c.store.Delete(id)
		return nil, fire.Errorf(fire.KindTimeout, "lifecycle.Create", id, "timed out waiting for container bring-up")
	case res := <-done:
		if res.err != nil {
			c.store.Delete(id)
			return nil, res.err
		}
		return c.store.Update(id, func(r *store.Record) error {
			r.Status = store.StatusCreated
			r.Pid = res.pid
			r.StartTime = procStartTime(res.pid)
			return nil
		})
	}
}

type createResult struct {
	pid int
	err error
}

// Start authorizes a created container's init process to exec the
// user's command.
func (c *Controller) Start(id string) (*store.Record, error) {
	rec, err := c.store.Load(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != store.StatusCreated {
		return nil, fire.Errorf(fire.KindInvalidState, "lifecycle.Start", id, "container is %s, not created", rec.Status)
	}
	if err := process.SignalStart(c.store.ExecFifoPath(id)); err != nil {
		return nil, err
	}
	return c.store.Update(id, func(r *store.Record) error {
		r.Status = store.StatusRunning
		return nil
	})
}

// Kill delivers sig to a container's process.
func (c *Controller) Kill(id string, sig unix.Signal) error {
	rec, err := c.store.Load(id)
	if err != nil {
		return err
	}
	if rec.Status != store.StatusRunning && rec.Status != store.StatusCreated {
		return fire.Errorf(fire.KindInvalidState, "lifecycle.Kill", id, "container is %s", rec.Status)
	}
	return unix.Kill(rec.Pid, sig)
}

// State returns the container's current record, promoting a dead
// process to stopped the way currentStatus() did by probing the pid
// with signal 0, and also when the pid is alive but its start time no
// longer matches the one recorded at create (the pid was reused).
func (c *Controller) State(id string) (*store.Record, error) {
	rec, err := c.store.Load(id)
	if err != nil {
		return nil, err
	}
	reused := rec.StartTime != 0 && procStartTime(rec.Pid) != rec.StartTime
	if rec.Status == store.StatusRunning && (!alive(rec.Pid) || reused) {
		return c.store.Update(id, func(r *store.Record) error {
			r.Status = store.StatusStopped
			return nil
		})
	}
	return rec, nil
}

// List returns every container's current record.
func (c *Controller) List() ([]*store.Record, error) {
	ids, err := c.store.List()
	if err != nil {
		return nil, err
	}
	recs := make([]*store.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := c.State(id)
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Delete removes a container's state. A container can only be deleted
// once stopped, unless force is set, in which case a {created,
// running} container's init process is sent SIGKILL first. created
// counts as killable here because its init process is already forked
// and parked on the exec fifo waiting for start, per the record
// invariant that pid is non-zero in that status.
func (c *Controller) Delete(id string, force bool) error {
	rec, err := c.store.Load(id)
	if err != nil {
		return err
	}
	if rec.Status != store.StatusStopped {
		if !force {
			return fire.Errorf(fire.KindInvalidState, "lifecycle.Delete", id, "container is %s; use force to delete anyway", rec.Status)
		}
		if rec.Pid != 0 {
			unix.Kill(rec.Pid, unix.SIGKILL)
			waitDead(rec.Pid, killWait)
		}
	}

	if mgr, err := cgroups.NewManager(c.driver, rec.CgroupsPath, c.driver == cgroups.DriverSystemd); err == nil {
		mgr.Destroy()
	}
	return c.store.Delete(id)
}

// waitDead polls pid with signal 0 until it is no longer alive or
// timeout elapses, giving the kernel a chance to reap a just-killed
// process before its cgroup is torn down.
func waitDead(pid int, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for alive(pid) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
}

func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return unix.Kill(pid, 0) == nil
}
