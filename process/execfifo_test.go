package process

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecFifoBarrierReleasesOnSignalStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exec.fifo")
	require.NoError(t, makeExecFifo(path))

	done := make(chan error, 1)
	go func() {
		done <- waitExecFifo(path)
	}()

	select {
	case <-done:
		t.Fatal("waitExecFifo returned before SignalStart was called")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, SignalStart(path))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waitExecFifo did not unblock after SignalStart")
	}
}

func TestMakeExecFifoRemovesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exec.fifo")
	require.NoError(t, makeExecFifo(path))
	require.NoError(t, makeExecFifo(path))
}
