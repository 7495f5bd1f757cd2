// Package store persists container records under a state root, one
// directory per container, guarded by an advisory lock and written
// atomically so a crash mid-write never leaves a corrupt state.json
// behind. It is the on-disk analogue of libcontainer's state.go,
// widened from a single in-process container to a directory of them.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/moby/sys/atomicwriter"

	fire "github.com/fire-runtime/fire"
)

const (
	stateFile = "state.json"
	lockFile  = "lock"
)

// lockWait bounds how long a caller waits for another operation on the
// same container to release its lock before observing Busy, the
// serialization the per-container directory lock is meant to provide
// without risking an indefinite hang. A var, not a const, so tests can
// shrink it instead of actually waiting out the default.
var (
	lockWait         = 5 * time.Second
	lockRetryBackoff = 25 * time.Millisecond
)

// Store manages Records under a root directory, one subdirectory per
// container ID.
type Store struct {
	root string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fire.NewError(fire.KindSystem, "store.New", dir, err)
	}
	return &Store{root: dir}, nil
}

func (s *Store) dir(id string) string {
	return filepath.Join(s.root, id)
}

// Dir returns the container's private state directory, the right
// place for a caller to keep files like the exec fifo that must live
// alongside state.json but are not part of the Record itself.
func (s *Store) Dir(id string) string {
	return s.dir(id)
}

func (s *Store) statePath(id string) string {
	return filepath.Join(s.dir(id), stateFile)
}

// ExecFifoPath returns the path of the named pipe a container's init
// process blocks on between create and start.
func (s *Store) ExecFifoPath(id string) string {
	return filepath.Join(s.dir(id), "exec.fifo")
}

// lock acquires an exclusive advisory lock on the container's directory
// for the duration of a read-modify-write, mirroring the file lock
// libcontainer itself relies on to serialize its own state transitions.
// Two concurrent operations on the same id are serialized this way; the
// loser gives up and reports Busy after lockWait rather than blocking
// forever.
func (s *Store) lock(id string) (*flock.Flock, error) {
	fl := flock.New(filepath.Join(s.dir(id), lockFile))

	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, lockRetryBackoff)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fire.Errorf(fire.KindBusy, "store.lock", id, "timed out waiting for container lock")
		}
		return nil, fire.NewError(fire.KindSystem, "store.lock", id, err)
	}
	if !locked {
		return nil, fire.Errorf(fire.KindBusy, "store.lock", id, "timed out waiting for container lock")
	}
	return fl, nil
}

// Create writes a brand-new Record, failing if the container already
// has one.
func (s *Store) Create(rec *Record) error {
	dir := s.dir(rec.ID)
	if _, err := os.Stat(dir); err == nil {
		return fire.Errorf(fire.KindAlreadyExists, "store.Create", rec.ID, "container already exists")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fire.NewError(fire.KindSystem, "store.Create", rec.ID, err)
	}

	fl, err := s.lock(rec.ID)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	defer fl.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if err := s.write(rec); err != nil {
		os.RemoveAll(dir)
		return err
	}
	return nil
}

// Load reads the Record for id.
func (s *Store) Load(id string) (*Record, error) {
	raw, err := os.ReadFile(s.statePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fire.Errorf(fire.KindNotFound, "store.Load", id, "no such container")
		}
		return nil, fire.NewError(fire.KindSystem, "store.Load", id, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fire.NewError(fire.KindCorrupt, "store.Load", id, err)
	}
	return &rec, nil
}

// Update loads the current record, applies mutate, and atomically
// rewrites it, all under the container's lock.
func (s *Store) Update(id string, mutate func(*Record) error) (*Record, error) {
	fl, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	rec, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(rec); err != nil {
		return nil, err
	}
	if err := s.write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) write(rec *Record) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fire.NewError(fire.KindSystem, "store.write", rec.ID, err)
	}
	if err := atomicwriter.WriteFile(s.statePath(rec.ID), raw, 0o600); err != nil {
		return fire.NewError(fire.KindSystem, "store.write", rec.ID, err)
	}
	return nil
}

// Delete removes a container's on-disk state. It is idempotent: deleting
// an already-absent container is not an error.
func (s *Store) Delete(id string) error {
	if err := os.RemoveAll(s.dir(id)); err != nil {
		return fire.NewError(fire.KindSystem, "store.Delete", id, err)
	}
	return nil
}

// List returns the IDs of every container with a record under root.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fire.NewError(fire.KindSystem, "store.List", s.root, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), stateFile)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}
