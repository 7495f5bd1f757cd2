package process

import (
	"os"
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"

	"github.com/fire-runtime/fire/nsmanager"
)

func TestConnRoundTrip(t *testing.T) {
	r, w := pipe(t)
	defer r.Close()
	defer w.Close()

	writer := newConn(w)
	reader := newConn(r)

	cfg := &Config{
		Spec:       &specs.Spec{Process: &specs.Process{Args: []string{"/bin/sh"}}},
		Namespaces: &nsmanager.Set{CloneFlags: 0x20000, JoinPaths: map[specs.LinuxNamespaceType]string{}},
	}
	require.NoError(t, writer.send(Frame{Type: FrameConfigure, Config: cfg}))
	require.NoError(t, writer.send(Frame{Type: FrameReady}))

	got, err := reader.recv()
	require.NoError(t, err)
	require.Equal(t, FrameConfigure, got.Type)
	require.Equal(t, []string{"/bin/sh"}, got.Config.Spec.Process.Args)

	got2, err := reader.recv()
	require.NoError(t, err)
	require.Equal(t, FrameReady, got2.Type)
}

func pipe(t *testing.T) (*os.File, *os.File) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	return r, w
}
