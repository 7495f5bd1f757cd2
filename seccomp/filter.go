// Package seccomp compiles an OCI LinuxSeccomp policy into a loaded
// BPF filter via libseccomp. It is grounded on the original runtime's
// seccomp.rs, which built a single scmp_filter_ctx from the spec's
// default action and per-syscall rules; fire does the same through
// seccomp-golang's higher-level ScmpFilter instead of the raw cgo
// calls seccomp.rs made directly against libseccomp.
package seccomp

import (
	"fmt"

	libseccomp "github.com/seccomp/libseccomp-golang"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	fire "github.com/fire-runtime/fire"
)

var actions = map[specs.LinuxSeccompAction]libseccomp.ScmpAction{
	specs.ActKill:      libseccomp.ActKill,
	specs.ActKillProcess: libseccomp.ActKillProcess,
	specs.ActTrap:      libseccomp.ActTrap,
	specs.ActErrno:     libseccomp.ActErrno,
	specs.ActTrace:     libseccomp.ActTrace,
	specs.ActAllow:     libseccomp.ActAllow,
	specs.ActLog:       libseccomp.ActLog,
}

var operators = map[specs.LinuxSeccompOperator]libseccomp.ScmpCompareOp{
	specs.OpNotEqual:     libseccomp.CompareNotEqual,
	specs.OpLessThan:     libseccomp.CompareLess,
	specs.OpLessEqual:    libseccomp.CompareLessOrEqual,
	specs.OpEqualTo:      libseccomp.CompareEqual,
	specs.OpGreaterEqual: libseccomp.CompareGreaterEqual,
	specs.OpGreaterThan:  libseccomp.CompareGreater,
	specs.OpMaskedEqual:  libseccomp.CompareMaskedEqual,
}

// Install compiles policy and loads it into the kernel for the
// calling thread. finalizeAndExec calls it after capabilities are
// dropped and no_new_privs is set, and before the uid/gid switch, so
// the filter is already in force for that switch and for the exec.
func Install(policy *specs.LinuxSeccomp) error {
	if policy == nil || len(policy.Syscalls) == 0 {
		return nil
	}

	defaultAction, ok := actions[policy.DefaultAction]
	if !ok {
		return fire.Errorf(fire.KindInvalidSpec, "seccomp.Install", string(policy.DefaultAction), "unknown default action")
	}
	if policy.DefaultAction == specs.ActErrno && policy.DefaultErrnoRet != nil {
		defaultAction = defaultAction.SetReturnCode(int16(*policy.DefaultErrnoRet))
	}

	filter, err := libseccomp.NewFilter(defaultAction)
	if err != nil {
		return fire.NewError(fire.KindSeccompFailed, "seccomp.Install", "", err)
	}
	defer filter.Release()

	for _, arch := range policy.Architectures {
		a, err := libseccomp.GetArchFromString(string(arch))
		if err != nil {
			continue
		}
		if err := filter.AddArch(a); err != nil {
			return fire.NewError(fire.KindSeccompFailed, "seccomp.Install", string(arch), err)
		}
	}

	for _, rule := range policy.Syscalls {
		action, ok := actions[rule.Action]
		if !ok {
			return fire.Errorf(fire.KindInvalidSpec, "seccomp.Install", string(rule.Action), "unknown syscall action")
		}
		if rule.Action == specs.ActErrno && rule.ErrnoRet != nil {
			action = action.SetReturnCode(int16(*rule.ErrnoRet))
		}
		if err := addSyscallRule(filter, rule, action); err != nil {
			return err
		}
	}

	if err := filter.Load(); err != nil {
		return fire.NewError(fire.KindSeccompFailed, "seccomp.Install", "", fmt.Errorf("load filter: %w", err))
	}
	return nil
}

// addSyscallRule adds one LinuxSyscall entry's names, each either
// unconditionally or with the arg comparisons the spec listed; a
// named syscall the running kernel doesn't know about is skipped, not
// fatal, the same tolerance seccomp.rs gave unknown names.
func addSyscallRule(filter *libseccomp.ScmpFilter, rule specs.LinuxSyscall, action libseccomp.ScmpAction) error {
	for _, name := range rule.Names {
		nr, err := libseccomp.GetSyscallFromName(name)
		if err != nil {
			continue
		}

		if len(rule.Args) == 0 {
			if err := filter.AddRule(nr, action); err != nil {
				return fire.NewError(fire.KindSeccompFailed, "seccomp.addSyscallRule", name, err)
			}
			continue
		}

		conds := make([]libseccomp.ScmpCondition, 0, len(rule.Args))
		for _, arg := range rule.Args {
			op, ok := operators[arg.Op]
			if !ok {
				return fire.Errorf(fire.KindInvalidSpec, "seccomp.addSyscallRule", name, "unknown arg operator")
			}
			var cond libseccomp.ScmpCondition
			var err error
			if arg.Op == specs.OpMaskedEqual {
				cond, err = libseccomp.MakeCondition(arg.Index, op, arg.Value, arg.ValueTwo)
			} else {
				cond, err = libseccomp.MakeCondition(arg.Index, op, arg.Value)
			}
			if err != nil {
				return fire.NewError(fire.KindSeccompFailed, "seccomp.addSyscallRule", name, err)
			}
			conds = append(conds, cond)
		}
		if err := filter.AddRuleConditional(nr, action, conds); err != nil {
			return fire.NewError(fire.KindSeccompFailed, "seccomp.addSyscallRule", name, err)
		}
	}
	return nil
}
