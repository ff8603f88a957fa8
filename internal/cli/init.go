package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hrntsm/dmkit/internal/infra/fsworkspace"
	"github.com/hrntsm/dmkit/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a dmkit workspace (dmkit.yaml, exports/, .dmkit/)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			root, err := uc.Execute(path, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Workspace ready at %s\n", root)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (defaults to the working directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite dmkit.yaml if it already exists")
	return c
}
