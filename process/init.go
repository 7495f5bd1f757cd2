package process

import (
	"fmt"
	"os"

	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"

	"github.com/fire-runtime/fire/mountplan"
	"github.com/fire-runtime/fire/nsmanager"
)

func init() {
	reexec.Register(reexecName, initMain)
}

// initMain is the entrypoint fire's own binary runs as when re-exec'd
// with argv[0] == reexecName, the same self-reexec trick
// linux_factory.go used for StartInitialization: the init process talks
// to its parent over fd 3, does namespace/mount/security setup, and
// finally replaces itself with the container's command.
func initMain() {
	pipe := os.NewFile(3, "fire-init-child")
	c := newConn(pipe)

	frame, err := c.recv()
	if err != nil || frame.Type != FrameConfigure || frame.Config == nil {
		fail(c, fmt.Errorf("expected configure frame: %w", err))
	}
	cfg := frame.Config
	spec := cfg.Spec
	nsSet := cfg.Namespaces

	if nsSet.CloneFlags&unix.CLONE_NEWUSER != 0 {
		if err := c.send(Frame{Type: FrameUsernsReady}); err != nil {
			fail(c, err)
		}
		mapped, err := c.recv()
		if err != nil || mapped.Type != FrameMapped {
			fail(c, fmt.Errorf("expected mapped frame: %w", err))
		}
	}

	if err := joinNamespaces(nsSet); err != nil {
		fail(c, err)
	}

	if spec.Hostname != "" {
		if err := nsmanager.Hostname(spec.Hostname); err != nil {
			fail(c, err)
		}
	}

	plan, err := mountplan.Build(spec)
	if err != nil {
		fail(c, err)
	}
	if err := plan.Apply(); err != nil {
		fail(c, err)
	}

	if err := applySysctls(spec); err != nil {
		fail(c, err)
	}

	// Bring-up is done: clear the parent-death signal the launcher set,
	// so this process outlives the create invocation that forked it.
	if err := unix.Prctl(unix.PR_SET_PDEATHSIG, 0, 0, 0, 0); err != nil {
		fail(c, err)
	}

	if err := c.send(Frame{Type: FrameReady}); err != nil {
		fail(c, err)
	}
	c.Close()

	// The parent is done talking to us over the socketpair: Create can
	// now return in a wholly different process than the one that will
	// eventually call Start. Opening this fifo for reading blocks until
	// a writer shows up, which is exactly the pre-exec barrier OCI's
	// split create/start contract needs.
	if err := waitExecFifo(cfg.ExecFifoPath); err != nil {
		fmt.Fprintln(os.Stderr, "fire-init:", err)
		os.Exit(1)
	}

	if err := finalizeAndExec(spec); err != nil {
		// There is no parent listening anymore by design: the start
		// barrier is the last synchronous checkpoint. Report failure
		// the same way a failed exec always has to: stderr and a
		// non-zero exit.
		fmt.Fprintln(os.Stderr, "fire-init:", err)
		os.Exit(1)
	}
}

func fail(c *conn, err error) {
	c.send(Frame{Type: FrameError, Error: err.Error()})
	os.Exit(1)
}
