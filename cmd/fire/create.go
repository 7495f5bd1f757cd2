package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newCreateCmd(flags *rootFlags) *cobra.Command {
	var bundle string
	cmd := &cobra.Command{
		Use:   "create <container-id>",
		Short: "Create a container from a bundle",
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
			logrus.WithFields(logrus.Fields{"id": rec.ID, "pid": rec.Pid}).Info("container created")
			return nil
		},
	}
	cmd.Flags().StringVar(&bundle, "bundle", ".", "path to the OCI bundle")
	return cmd
}
