package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "cpu.weight", "100"))

	got, err := readFile(dir, "cpu.weight")
	require.NoError(t, err)
	require.Equal(t, "100", got)
}

func TestWriteFileIntFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFileInt(dir, "pids.max", 42))

	got, err := readFile(dir, "pids.max")
	require.NoError(t, err)
	require.Equal(t, "42", got)
}

func TestCopyParentSkipsEmptyValue(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "child")
	require.NoError(t, writeFile(parent, "cpuset.cpus", ""))
	require.NoError(t, copyParent(child, "cpuset.cpus"))

	_, err := readFile(child, "cpuset.cpus")
	require.Error(t, err)
}

func TestCopyParentCopiesNonEmptyValue(t *testing.T) {
	parent := t.TempDir()
	child := filepath.Join(parent, "child")
	require.NoError(t, writeFile(parent, "cpuset.cpus", "0-3"))
	require.NoError(t, copyParent(child, "cpuset.cpus"))

	got, err := readFile(child, "cpuset.cpus")
	require.NoError(t, err)
	require.Equal(t, "0-3", got)
}

func TestReadProcsMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	procs, err := readProcs(dir)
	require.NoError(t, err)
	require.Nil(t, procs)
}

func TestReadProcsParsesPids(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "cgroup.procs", "1\n42\n100\n"))

	procs, err := readProcs(dir)
	require.NoError(t, err)
	require.Equal(t, []int{1, 42, 100}, procs)
}
