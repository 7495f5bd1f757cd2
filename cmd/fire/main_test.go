package main

import (
	"errors"
	"path/filepath"
	"testing"

	fire "github.com/fire-runtime/fire"
)

func TestDefaultStateRoot(t *testing.T) {
	t.Setenv("FIRE_STATE_ROOT", "")
	t.Setenv("XDG_STATE_HOME", "")
	if got := defaultStateRoot(); got == "/run/fire" {
		t.Errorf("defaultStateRoot() = %q, want a $HOME/.fire fallback", got)
	}

	t.Setenv("XDG_STATE_HOME", "/xdg")
	if got, want := defaultStateRoot(), filepath.Join("/xdg", "fire"); got != want {
		t.Errorf("defaultStateRoot() = %q, want %q", got, want)
	}

	t.Setenv("FIRE_STATE_ROOT", "/override")
	if got := defaultStateRoot(); got != "/override" {
		t.Errorf("defaultStateRoot() = %q, want /override", got)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		kind fire.Kind
		want int
	}{
		{fire.KindInvalidSpec, 1},
		{fire.KindInvalidState, 1},
		{fire.KindNotFound, 3},
		{fire.KindAlreadyExists, 4},
		{fire.KindBusy, 5},
		{fire.KindSystem, 2},
		{fire.KindMountFailed, 2},
		{fire.KindUnknown, 2},
	}
	for _, c := range cases {
		err := fire.NewError(c.kind, "op", "", nil)
		if got := exitCode(err); got != c.want {
			t.Errorf("exitCode(%s) = %d, want %d", c.kind, got, c.want)
		}
	}

	if got := exitCode(errors.New("plain")); got != 2 {
		t.Errorf("exitCode(plain error) = %d, want 2", got)
	}
}
