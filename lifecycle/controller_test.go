package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	fire "github.com/fire-runtime/fire"
	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/store"
)

func TestCreateRejectsEmptyID(t *testing.T) {
	c, err := New(t.TempDir(), cgroups.DriverCgroupfs, "/fire-test")
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "", t.TempDir())
	require.Error(t, err)
	require.Equal(t, fire.KindInvalidSpec, fire.KindOf(err))
}

func TestCreateRejectsPathTraversalID(t *testing.T) {
	c, err := New(t.TempDir(), cgroups.DriverCgroupfs, "/fire-test")
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "../../etc", t.TempDir())
	require.Error(t, err)
	require.Equal(t, fire.KindInvalidSpec, fire.KindOf(err))
}

func TestDeleteRequiresStoppedOrForceWhenCreated(t *testing.T) {
	root := t.TempDir()
	c, err := New(root, cgroups.DriverCgroupfs, "/fire-test")
	require.NoError(t, err)

	rec := &store.Record{ID: "c1", Status: store.StatusCreated}
	require.NoError(t, c.store.Create(rec))

	err = c.Delete("c1", false)
	require.Error(t, err)
	require.Equal(t, fire.KindInvalidState, fire.KindOf(err))

	require.NoError(t, c.Delete("c1", true))
	_, err = c.store.Load("c1")
	require.Equal(t, fire.KindNotFound, fire.KindOf(err))
}

func TestStartRejectsUnknownContainer(t *testing.T) {
	c, err := New(t.TempDir(), cgroups.DriverCgroupfs, "/fire-test")
	require.NoError(t, err)

	_, err = c.Start("nope")
	require.Error(t, err)
}

func TestDeleteUnknownIsError(t *testing.T) {
	c, err := New(t.TempDir(), cgroups.DriverCgroupfs, "/fire-test")
	require.NoError(t, err)
	require.Error(t, c.Delete("nope", false))
}

func TestProcStartTimeMissingPid(t *testing.T) {
	require.Equal(t, uint64(0), procStartTime(1<<30))
}
