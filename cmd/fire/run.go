package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

// newRunCmd combines create and start into the single invocation most
// non-orchestrated callers actually want, the way nsinit's own "exec"
// command folded its create-then-start pair together.
func newRunCmd(flags *rootFlags) *cobra.Command {
	var bundle string
	cmd := &cobra.Command{
		Use:   "run <container-id>",
		Short: "Create and start a container from a bundle in one step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			ctx, cancel := bringupContext()
			defer cancel()

			rec, err := ctrl.Create(ctx, args[0], bundle)
			if err != nil {
				return err
			}
			rec, err = ctrl.Start(rec.ID)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"id": rec.ID, "pid": rec.Pid}).Info("container running")
			return nil
		},
	}
	cmd.Flags().StringVar(&bundle, "bundle", ".", "path to the OCI bundle")
	return cmd
}
