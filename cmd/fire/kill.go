package main

import (
	"github.com/moby/sys/signal"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	fire "github.com/fire-runtime/fire"
	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newKillCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kill <container-id> [signal]",
		Short: "Send a signal to a container's process",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			sig := unix.SIGTERM
			if len(args) == 2 {
				parsed, err := signal.ParseSignal(args[1])
				if err != nil {
					return fire.NewError(fire.KindInvalidSpec, "cmd.kill", args[1], err)
				}
				sig = unix.Signal(parsed)
			}
			return ctrl.Kill(args[0], sig)
		},
	}
}
