package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fire-runtime/fire/cgroups"
	"github.com/fire-runtime/fire/lifecycle"
)

func newPsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ps",
		Short: "List known containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := lifecycle.New(flags.stateRoot, cgroups.DriverCgroupfs, "/fire")
			if err != nil {
				return err
			}
			recs, err := ctrl.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 1, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPID\tSTATUS\tBUNDLE")
			for _, rec := range recs {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", rec.ID, rec.Pid, rec.Status, rec.Bundle)
			}
			return w.Flush()
		},
	}
}
