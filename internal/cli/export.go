package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hrntsm/dmkit/internal/app/template"
	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/fsfile"
	"github.com/hrntsm/dmkit/internal/infra/logger"
	"github.com/hrntsm/dmkit/internal/usecase"
)

func exportCmd() *cobra.Command {
	var workspace string
	var radius float64
	var out string
	var dir string
	var force bool

	c := &cobra.Command{
		Use:   "export",
		Short: "Export a sphere as a .3dm document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			stop := startLogging(cmd, ws.root)
			defer stop()
			log := logger.Component("cli.export")

			if !cmd.Flags().Changed("radius") {
				radius = ws.cfg.Sphere.DefaultRadius
			}
			if out == "" {
				out = ws.cfg.Export.Filename
			}
			if dir == "" {
				dir = ws.exportDir
			}

			builder := usecase.NewPrimitiveBuilder(ws.cfg.Sphere.Center)
			if err := builder.SetRadius(radius); err != nil {
				return err
			}
			shape := builder.Pending()

			filename, err := template.Filename(out, shape, time.Now())
			if err != nil {
				return err
			}

			uc := usecase.NewExportShape(
				newGateway(ws.cfg),
				fsfile.NewDirSink(dir, fsfile.WithOverwrite(force)),
			)

			location, err := uc.Deliver(cmd.Context(), filename, shape)
			if err != nil {
				log.Error("export.failed", "radius", radius, "kind", domain.KindOf(err), "err", err)
				return err
			}
			log.Info("export.ok", "radius", radius, "location", location)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sphere:   center %s, radius %g, diameter %g\n", shape.Center, shape.Radius, shape.Diameter())
			fmt.Fprintf(w, "Exported: %s\n", location)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().Float64VarP(&radius, "radius", "r", 0, "Sphere radius (defaults to sphere.default_radius)")
	c.Flags().StringVarP(&out, "out", "o", "", "File name; {{kind}}, {{radius}}, {{diameter}}, {{date}} and {{time}} are expanded (defaults to export.filename)")
	c.Flags().StringVar(&dir, "dir", "", "Output directory (defaults to export.dir)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite an existing file instead of picking a free name")
	return c
}
