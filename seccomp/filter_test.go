package seccomp

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/require"

	fire "github.com/fire-runtime/fire"
)

func TestInstallNilPolicyIsNoop(t *testing.T) {
	require.NoError(t, Install(nil))
	require.NoError(t, Install(&specs.LinuxSeccomp{}))
}

func TestInstallRejectsUnknownDefaultAction(t *testing.T) {
	err := Install(&specs.LinuxSeccomp{
		DefaultAction: specs.LinuxSeccompAction("SCMP_ACT_BOGUS"),
		Syscalls:      []specs.LinuxSyscall{{Names: []string{"read"}, Action: specs.ActAllow}},
	})
	require.Error(t, err)
	require.Equal(t, fire.KindInvalidSpec, fire.KindOf(err))
}

func TestInstallAppliesDefaultErrnoRet(t *testing.T) {
	enosys := uint(38)
	err := Install(&specs.LinuxSeccomp{
		DefaultAction:   specs.ActErrno,
		DefaultErrnoRet: &enosys,
		Syscalls: []specs.LinuxSyscall{
			{Names: []string{"exit", "exit_group", "read", "write", "execve"}, Action: specs.ActAllow},
		},
	})
	require.NoError(t, err)
}

func TestAddSyscallRuleAppliesPerRuleErrnoRet(t *testing.T) {
	eperm := uint(1)
	err := Install(&specs.LinuxSeccomp{
		DefaultAction: specs.ActAllow,
		Syscalls: []specs.LinuxSyscall{
			{Names: []string{"mount"}, Action: specs.ActErrno, ErrnoRet: &eperm},
		},
	})
	require.NoError(t, err)
}
