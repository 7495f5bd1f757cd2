package main

import (
	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <container-id>",
		Short: "Remove a container's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			return ctrl.Delete(args[0], force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete even if the container is running")
	return cmd
}
