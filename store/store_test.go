package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fire "github.com/fire-runtime/fire"
)

func TestCreateLoad(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	rec := &Record{ID: "c1", Bundle: "/bundles/c1", Status: StatusCreating}
	require.NoError(t, s.Create(rec))

	got, err := s.Load("c1")
	require.NoError(t, err)
	require.Equal(t, "c1", got.ID)
	require.Equal(t, StatusCreating, got.Status)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateDuplicate(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Create(&Record{ID: "c1"}))
	err = s.Create(&Record{ID: "c1"})
	require.Error(t, err)
	require.Equal(t, fire.KindAlreadyExists, fire.KindOf(err))
}

func TestLoadMissing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load("nope")
	require.Error(t, err)
	require.Equal(t, fire.KindNotFound, fire.KindOf(err))
}

func TestUpdate(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create(&Record{ID: "c1", Status: StatusCreating}))

	rec, err := s.Update("c1", func(r *Record) error {
		r.Status = StatusRunning
		r.Pid = 1234
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, StatusRunning, rec.Status)

	got, err := s.Load("c1")
	require.NoError(t, err)
	require.Equal(t, 1234, got.Pid)
}

func TestDeleteIdempotent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create(&Record{ID: "c1"}))
	require.NoError(t, s.Delete("c1"))
	require.NoError(t, s.Delete("c1"))

	_, err = s.Load("c1")
	require.Error(t, err)
}

func TestExecFifoPathUnderContainerDir(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	dir := s.Dir("c1")
	require.Equal(t, dir+"/exec.fifo", s.ExecFifoPath("c1"))
}

func TestLoadCorrupt(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create(&Record{ID: "c1"}))

	require.NoError(t, os.WriteFile(s.statePath("c1"), []byte("{not json"), 0o600))

	_, err = s.Load("c1")
	require.Error(t, err)
	require.Equal(t, fire.KindCorrupt, fire.KindOf(err))
}

func TestUpdateBusyWhenAlreadyLocked(t *testing.T) {
	old := lockWait
	lockWait = 100 * time.Millisecond
	defer func() { lockWait = old }()

	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create(&Record{ID: "c1"}))

	fl, err := s.lock("c1")
	require.NoError(t, err)
	defer fl.Unlock()

	_, err = s.Update("c1", func(r *Record) error { return nil })
	require.Error(t, err)
	require.Equal(t, fire.KindBusy, fire.KindOf(err))
}

func TestList(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Create(&Record{ID: "a"}))
	require.NoError(t, s.Create(&Record{ID: "b"}))

	ids, err := s.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, ids)
}
