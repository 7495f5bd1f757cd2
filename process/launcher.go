package process

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/moby/sys/reexec"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/nsmanager"
)

// reexecName is the argv[0] fire's own binary recognizes as "become
// the container init" rather than "run the CLI", the same trick
// linux_factory.go used re-exec'ing itself via /proc/self/exe with a
// recognized first argument.
const reexecName = "fire-init"

// Launcher drives one container's first process through Create,
// mirroring libcontainer's newParentProcess/newInitProcess split:
// Create forks the child and blocks until it reports ready to exec.
// Authorizing the actual exec is not left to Create's caller holding a
// socket open, unlike libcontainer's single-process model -- OCI's
// create and start are separate CLI invocations that need not share a
// process, so that barrier is a named fifo (ExecFifoPath) instead of a
// frame over this socketpair, the same mechanism commands/create.rs
// and start.rs coordinated through.
type Launcher struct {
	spec         *specs.Spec
	cgroup       cgroups.Manager
	execFifoPath string
	cmd          *exec.Cmd
	conn         *conn
}

func NewLauncher(spec *specs.Spec, cgroup cgroups.Manager, execFifoPath string) *Launcher {
	return &Launcher{spec: spec, cgroup: cgroup, execFifoPath: execFifoPath}
}

// Create starts the init process, completes namespace and mount setup
// synchronously via the socketpair handshake, and returns its pid once
// it is blocked opening ExecFifoPath, waiting for SignalStart.
func (l *Launcher) Create() (int, error) {
	nsSet, err := nsmanager.Resolve(l.spec)
	if err != nil {
		return 0, err
	}
	if err := nsmanager.CheckFlags(nsSet.CloneFlags); err != nil {
		return 0, err
	}
	if err := makeExecFifo(l.execFifoPath); err != nil {
		return 0, err
	}

	parentFd, childFd, err := unix.Socketpair(unix.AF_LOCAL, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return 0, fire.NewError(fire.KindSystem, "process.Create", "", err)
	}
	parent := os.NewFile(uintptr(parentFd), "fire-init-parent")
	child := os.NewFile(uintptr(childFd), "fire-init-child")

	cmd := reexec.Command(reexecName)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.ExtraFiles = []*os.File{child}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: uintptr(nsSet.CloneFlags),
		Pdeathsig:  unix.SIGKILL,
	}

	if err := cmd.Start(); err != nil {
		parent.Close()
		child.Close()
		return 0, fire.NewError(fire.KindSystem, "process.Create", "", fmt.Errorf("start init: %w", err))
	}
	child.Close()

	l.cmd = cmd
	l.conn = newConn(parent)

	// I is blocked reading S for CONFIGURE and cannot do anything on
	// its own behalf yet, so I's pid is attached into the cgroups here,
	// before CONFIGURE is sent, and it boots already inside the
	// controller. The uid/gid maps are written later, after CONFIGURE:
	// I answers it with USERNS_READY and then blocks until MAPPED.
	if l.cgroup != nil {
		if err := l.cgroup.Apply(cmd.Process.Pid); err != nil {
			l.abort()
			return 0, err
		}
		var resources *specs.LinuxResources
		if l.spec.Linux != nil {
			resources = l.spec.Linux.Resources
		}
		if err := l.cgroup.Set(resources); err != nil {
			l.abort()
			return 0, err
		}
	}

	cfg := &Config{Spec: l.spec, Namespaces: nsSet, ExecFifoPath: l.execFifoPath}
	if err := l.conn.send(Frame{Type: FrameConfigure, Config: cfg}); err != nil {
		l.abort()
		return 0, fire.NewError(fire.KindSystem, "process.Create", "", err)
	}

	if nsSet.CloneFlags&unix.CLONE_NEWUSER != 0 {
		if _, err := l.expect(FrameUsernsReady); err != nil {
			l.abort()
			return 0, err
		}
		if err := nsmanager.WriteIDMappings(cmd.Process.Pid, l.spec.Linux.UIDMappings, l.spec.Linux.GIDMappings); err != nil {
			l.abort()
			return 0, err
		}
		if err := l.conn.send(Frame{Type: FrameMapped}); err != nil {
			l.abort()
			return 0, fire.NewError(fire.KindSystem, "process.Create", "", err)
		}
	}

	if _, err := l.expect(FrameReady); err != nil {
		l.abort()
		return 0, err
	}
	l.conn.Close()

	if nsSet.CloneFlags&unix.CLONE_NEWNET != 0 {
		if err := nsmanager.BringUpLoopback(cmd.Process.Pid); err != nil {
			l.abort()
			return 0, err
		}
	}

	// The init process is now blocked opening ExecFifoPath. Create's
	// job is done: it does not wait on cmd here, since the whole point
	// of the fifo barrier is that the process which eventually calls
	// Start, unblocking that open, need not be this one. Once this CLI
	// invocation exits, the child is simply reparented to pid 1, alive
	// and waiting, not a zombie.
	return cmd.Process.Pid, nil
}

func (l *Launcher) expect(want FrameType) (Frame, error) {
	frame, err := l.conn.recv()
	if err != nil {
		return frame, fire.NewError(fire.KindSystem, "process.expect", string(want), err)
	}
	if frame.Type == FrameError {
		return frame, fire.Errorf(fire.KindSystem, "process.expect", string(want), "init: %s", frame.Error)
	}
	if frame.Type != want {
		return frame, fire.Errorf(fire.KindSystem, "process.expect", string(want), "unexpected frame %q", frame.Type)
	}
	return frame, nil
}

func (l *Launcher) abort() {
	if l.conn != nil {
		l.conn.Close()
	}
	if l.cmd != nil && l.cmd.Process != nil {
		l.cmd.Process.Kill()
		l.cmd.Wait()
	}
}
