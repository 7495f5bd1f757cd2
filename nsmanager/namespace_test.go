package nsmanager

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestResolveCreatesAndJoins(t *testing.T) {
	spec := &specs.Spec{
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.PIDNamespace},
				{Type: specs.NetworkNamespace, Path: "/var/run/netns/shared"},
				{Type: specs.MountNamespace},
			},
		},
	}
	set, err := Resolve(spec)
	require.NoError(t, err)
	require.Equal(t, uintptr(unix.CLONE_NEWPID|unix.CLONE_NEWNS), set.CloneFlags)
	require.Equal(t, "/var/run/netns/shared", set.JoinPaths[specs.NetworkNamespace])
}

func TestResolveRejectsDuplicate(t *testing.T) {
	spec := &specs.Spec{
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.PIDNamespace},
				{Type: specs.PIDNamespace},
			},
		},
	}
	_, err := Resolve(spec)
	require.Error(t, err)
}

func TestCheckFlagsRequiresMountNamespace(t *testing.T) {
	require.Error(t, CheckFlags(unix.CLONE_NEWUSER))
	require.NoError(t, CheckFlags(unix.CLONE_NEWUSER|unix.CLONE_NEWNS))
}
