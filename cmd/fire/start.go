package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newStartCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start <container-id>",
		Short: "Start a previously created container's process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			rec, err := ctrl.Start(args[0])
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"id": rec.ID, "pid": rec.Pid}).Info("container started")
			return nil
		},
	}
}
