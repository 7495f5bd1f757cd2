package process

import (
	"fmt"
	"os/exec"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
	"github.com/fire-runtime/fire/seccomp"
)

// finalizeAndExec runs the last, unrecoverable steps of container
// bring-up in the fixed order the OCI runtime spec requires: rlimits,
// capabilities, no_new_privs, seccomp, then the uid/gid change as the
// last privileged step, then exec.
//
// Dropping capabilities while still root and only then switching uid
// would normally cost us everything: per capabilities(7), a process
// whose effective uid moves from 0 to nonzero has its permitted and
// effective capability sets cleared entirely unless SECBIT_KEEP_CAPS
// was set beforehand. So the capability set assembled below is held
// across the switch by bracketing it in PR_SET_KEEPCAPS, the same
// purpose FinalizeNamespace's SetKeepCaps/ClearKeepCaps pair served
// around its own uid change. Once this function calls unix.Exec
// successfully it never returns.
func finalizeAndExec(spec *specs.Spec) error {
	if err := unix.Chdir(spec.Process.Cwd); err != nil {
		return fmt.Errorf("chdir %s: %w", spec.Process.Cwd, err)
	}
	if err := applyRlimits(spec.Process.Rlimits); err != nil {
		return err
	}
	if err := dropCapabilities(spec.Process.Capabilities); err != nil {
		return fmt.Errorf("drop capabilities: %w", err)
	}
	if _, _, errno := unix.Syscall(unix.SYS_PRCTL, unix.PR_SET_KEEPCAPS, 1, 0); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_KEEPCAPS): %w", errno)
	}
	if spec.Process.NoNewPrivileges {
		if _, _, errno := unix.Syscall(unix.SYS_PRCTL, unix.PR_SET_NO_NEW_PRIVS, 1, 0); errno != 0 {
			return fmt.Errorf("prctl(PR_SET_NO_NEW_PRIVS): %w", errno)
		}
	}
	if spec.Linux != nil {
		if err := seccomp.Install(spec.Linux.Seccomp); err != nil {
			return err
		}
	}

	if err := applyIdentity(spec.Process.User); err != nil {
		return err
	}
	if _, _, errno := unix.Syscall(unix.SYS_PRCTL, unix.PR_SET_KEEPCAPS, 0, 0); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_KEEPCAPS): %w", errno)
	}

	path, err := resolveExecutable(spec.Process.Args[0])
	if err != nil {
		return fire.NewError(fire.KindExecFailed, "process.finalizeAndExec", spec.Process.Args[0], err)
	}
	if err := unix.Exec(path, spec.Process.Args, spec.Process.Env); err != nil {
		return fire.NewError(fire.KindExecFailed, "process.finalizeAndExec", path, err)
	}
	return nil
}

func applyRlimits(rlimits []specs.POSIXRlimit) error {
	for _, rl := range rlimits {
		resource, ok := rlimitsByName[rl.Type]
		if !ok {
			return fmt.Errorf("unknown rlimit %q", rl.Type)
		}
		if err := unix.Setrlimit(resource, &unix.Rlimit{Cur: rl.Soft, Max: rl.Hard}); err != nil {
			return fmt.Errorf("setrlimit %s: %w", rl.Type, err)
		}
	}
	return nil
}

var rlimitsByName = map[string]int{
	"RLIMIT_CPU":     unix.RLIMIT_CPU,
	"RLIMIT_FSIZE":   unix.RLIMIT_FSIZE,
	"RLIMIT_DATA":    unix.RLIMIT_DATA,
	"RLIMIT_STACK":   unix.RLIMIT_STACK,
	"RLIMIT_CORE":    unix.RLIMIT_CORE,
	"RLIMIT_RSS":     unix.RLIMIT_RSS,
	"RLIMIT_NPROC":   unix.RLIMIT_NPROC,
	"RLIMIT_NOFILE":  unix.RLIMIT_NOFILE,
	"RLIMIT_MEMLOCK": unix.RLIMIT_MEMLOCK,
	"RLIMIT_AS":      unix.RLIMIT_AS,
	"RLIMIT_LOCKS":   unix.RLIMIT_LOCKS,
}

// applyIdentity sets supplementary groups before the primary gid/uid,
// and gid before uid, the only order in which a process that starts as
// root can still perform every step: setuid first would strip the
// privilege setgroups/setresgid need.
func applyIdentity(user specs.User) error {
	gids := make([]int, 0, len(user.AdditionalGids))
	for _, g := range user.AdditionalGids {
		gids = append(gids, int(g))
	}
	if len(gids) > 0 {
		if err := unix.Setgroups(gids); err != nil {
			return fmt.Errorf("setgroups: %w", err)
		}
	}
	if err := unix.Setresgid(int(user.GID), int(user.GID), int(user.GID)); err != nil {
		return fmt.Errorf("setresgid: %w", err)
	}
	if err := unix.Setresuid(int(user.UID), int(user.UID), int(user.UID)); err != nil {
		return fmt.Errorf("setresuid: %w", err)
	}
	return nil
}

func resolveExecutable(name string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}
	return exec.LookPath(name)
}
