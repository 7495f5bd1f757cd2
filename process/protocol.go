// Package process drives the two-phase bring-up of a container's
// first process: a parent launcher that forks a re-executed copy of
// the fire binary as "init", and a child side that finishes setting up
// namespaces, mounts, and security policy before exec'ing the user's
// command. The split and its socketpair handshake follow
// libcontainer's syncpipe-based parent/child protocol in
// container_linux.go and linux_factory.go, widened from a single
// READY/ERROR exchange into the ordered CONFIGURE/USERNS_READY/MAPPED/
// READY frames plus the exec-fifo barrier fire's extra setup steps
// need.
package process

import (
	"encoding/json"
	"os"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fire-runtime/fire/nsmanager"
)

// FrameType tags a Frame sent across the init socketpair.
type FrameType string

const (
	// FrameConfigure carries the full Config from parent to child; it
	// is always the first frame sent.
	FrameConfigure FrameType = "configure"
	// FrameUsernsReady is sent by the child right after it notices a
	// user namespace was created, before it can do anything that
	// depends on uid/gid mappings existing.
	FrameUsernsReady FrameType = "userns-ready"
	// FrameMapped is sent by the parent once it has written
	// uid_map/gid_map for the child's pid.
	FrameMapped FrameType = "mapped"
	// FrameReady is sent by the child once namespaces, mounts, and
	// devices are set up and it is about to block on ExecFifoPath.
	FrameReady FrameType = "ready"
	// FrameError carries a fatal setup error from the child to the
	// parent.
	FrameError FrameType = "error"
)

// Config is everything the child needs to finish container setup that
// the parent can't do on its behalf.
type Config struct {
	Spec       *specs.Spec    `json:"spec"`
	Namespaces *nsmanager.Set `json:"namespaces"`
	ConsoleFD  int            `json:"consoleFd,omitempty"`

	// ExecFifoPath is the named pipe the init process opens for
	// reading as its final barrier before exec'ing the container's
	// command. Opening it blocks until some later, possibly
	// unrelated, process calls SignalStart on the same path, which is
	// what lets create and start be two separate CLI invocations.
	ExecFifoPath string `json:"execFifoPath"`
}

// Frame is one message of the init protocol.
type Frame struct {
	Type   FrameType `json:"type"`
	Config *Config   `json:"config,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// conn wraps one end of the init socketpair with a single long-lived
// encoder/decoder pair. Frames are JSON values with no delimiter of
// their own, so re-creating a *json.Decoder per call would risk
// swallowing the start of the next frame into a discarded read buffer;
// keeping one decoder alive for the conn's lifetime avoids that.
type conn struct {
	f   *os.File
	enc *json.Encoder
	dec *json.Decoder
}

func newConn(f *os.File) *conn {
	return &conn{f: f, enc: json.NewEncoder(f), dec: json.NewDecoder(f)}
}

func (c *conn) send(frame Frame) error {
	return c.enc.Encode(&frame)
}

func (c *conn) recv() (Frame, error) {
	var frame Frame
	err := c.dec.Decode(&frame)
	return frame, err
}

func (c *conn) Close() error {
	return c.f.Close()
}
