package mountplan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fire "github.com/fire-runtime/fire"
)

func TestMountFailedIsStructured(t *testing.T) {
	cause := errors.New("boom")
	err := mountFailed("applyStep", "/src", "/dst", cause)

	require.Equal(t, fire.KindMountFailed, fire.KindOf(err))
	var fe *fire.Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "mountplan.applyStep", fe.Op)
	require.Equal(t, "/dst", fe.Path)
	require.ErrorIs(t, err, cause)
}

func TestUnwindClearsTrackedMounts(t *testing.T) {
	p := &Plan{Rootfs: "/nonexistent"}
	p.track("/nonexistent/a")
	p.track("/nonexistent/b")
	require.Len(t, p.mounted, 2)

	p.unwind()
	require.Empty(t, p.mounted)
}
