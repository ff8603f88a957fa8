package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hrntsm/dmkit/internal/infra/fsworkspace"
	"github.com/hrntsm/dmkit/internal/infra/logger"
	"github.com/hrntsm/dmkit/internal/infra/workspacefinder"
	"github.com/hrntsm/dmkit/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "dmkit",
		Short:        "dmkit: build a sphere, export it as .3dm, inspect user strings",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace("")
			if err != nil {
				return err
			}

			stop := startLogging(cmd, ws.root)
			defer stop()

			gw := newGateway(ws.cfg)

			return tui.Run(tui.Deps{
				Config:               ws.cfg,
				WorkspaceRoot:        ws.root,
				WorkspaceFound:       ws.found,
				ExportDir:            ws.exportDir,
				Kernels:              gw,
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				WorkspaceLocator:     workspacefinder.NewFinder(),
				Logger:               logger.Component("tui"),
				Debug:                debug,
			})
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .dmkit/logs/dmkit.log")

	cmd.AddCommand(
		exportCmd(),
		inspectCmd(),
		initCmd(),
		versionCmd(),
	)
	return cmd
}

// startLogging sets up the file logger under root. Logging is best effort: a
// read-only workspace still runs, with records discarded. With --debug the log
// location is printed to stderr.
func startLogging(cmd *cobra.Command, root string) func() {
	debug := debugFlag(cmd)
	cleanup, err := logger.Setup(logger.Config{Root: root, Debug: debug})
	if err != nil || cleanup == nil {
		if debug {
			fmt.Fprintf(cmd.ErrOrStderr(), "debug log unavailable: %v\n", err)
		}
		return func() {}
	}
	if debug && logger.IsReady() == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "debug log: %s\n", logger.Path())
	}
	return func() { _ = cleanup() }
}

func debugFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("debug")
	return v
}
