package process

import (
	"os"

	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
)

// makeExecFifo creates the named pipe a container's init process will
// block on, the same barrier the original runtime's exec.fifo played
// between its create and start commands.
func makeExecFifo(path string) error {
	os.Remove(path)
	if err := unix.Mkfifo(path, 0o600); err != nil {
		return fire.NewError(fire.KindSystem, "process.makeExecFifo", path, err)
	}
	return nil
}

// waitExecFifo opens path for reading, which blocks until SignalStart
// opens it for writing, then consumes the single byte SignalStart
// wrote. It is the init process's side of the barrier.
func waitExecFifo(path string) error {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return fire.NewError(fire.KindSystem, "process.waitExecFifo", path, err)
	}
	defer f.Close()

	var buf [1]byte
	if _, err := f.Read(buf[:]); err != nil {
		return fire.NewError(fire.KindSystem, "process.waitExecFifo", path, err)
	}
	return nil
}

// SignalStart authorizes the init process blocked on path's fifo to
// drop privileges and exec the container's command. It has no
// dependency on the Launcher that called Create: this is the whole
// point of the fifo barrier, since start may run in a process that
// never held that Launcher.
func SignalStart(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fire.NewError(fire.KindSystem, "process.SignalStart", path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0}); err != nil {
		return fire.NewError(fire.KindSystem, "process.SignalStart", path, err)
	}
	return nil
}
