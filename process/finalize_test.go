package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveExecutableWithSlash(t *testing.T) {
	path, err := resolveExecutable("/bin/sh")
	require.NoError(t, err)
	require.Equal(t, "/bin/sh", path)
}
