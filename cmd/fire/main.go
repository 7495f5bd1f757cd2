// Command fire is an OCI-compatible container runtime CLI, wired the
// way nsinit/cli.go wired libcontainer's debug CLI: a cobra root
// command with persistent flags for the state directory and log
// level, subcommands per OCI runtime operation, and a logrus logger
// configured once in PersistentPreRun.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/reexec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	fire "github.com/fire-runtime/fire"
	_ "github.com/fire-runtime/fire/process"
)

func main() {
	if reexec.Init() {
		return
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

type rootFlags struct {
	stateRoot string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "fire",
		Short:         "An OCI-compatible Linux container runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(flags.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.stateRoot, "root", defaultStateRoot(), "container state root")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newCreateCmd(flags),
		newStartCmd(flags),
		newRunCmd(flags),
		newKillCmd(flags),
		newDeleteCmd(flags),
		newStateCmd(flags),
		newPsCmd(flags),
	)
	return cmd
}

func configureLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// defaultStateRoot follows the XDG base directory spec: state lives
// under $XDG_STATE_HOME/fire, or ~/.fire when XDG_STATE_HOME is unset.
// FIRE_STATE_ROOT overrides both.
func defaultStateRoot() string {
	if v := os.Getenv("FIRE_STATE_ROOT"); v != "" {
		return v
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fire")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/run/fire"
	}
	return filepath.Join(home, ".fire")
}

// exitCode maps a fire.Error's Kind to the exit code OCI-compatible
// tooling expects callers to distinguish on: 1 user error, 2 runtime
// error, 3 not found, 4 already exists, 5 busy.
func exitCode(err error) int {
	switch fire.KindOf(err) {
	case fire.KindInvalidSpec, fire.KindInvalidState:
		return 1
	case fire.KindNotFound:
		return 3
	case fire.KindAlreadyExists:
		return 4
	case fire.KindBusy:
		return 5
	default:
		return 2
	}
}
