package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newStateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "state <container-id>",
		Short: "Output a container's current state as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			rec, err := ctrl.State(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
