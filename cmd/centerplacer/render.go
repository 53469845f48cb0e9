package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/loader"
	"resource-center-placer/internal/optimizer"
	"resource-center-placer/internal/render"
)

func newRenderCommand() *cobra.Command {
	var (
		data    dataFlags
		pflags  paramFlags
		outPath string
		width   int
		height  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the optimization and render the solution as a PNG map",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := pflags.resolve(cmd, data.constraints)
			if err != nil {
				return err
			}

			points, entries, _, err := loader.Load(data.points, data.zones, data.distances)
			if err != nil {
				return err
			}

			oracle := distance.NewTableOracle(points)
			oracle.Load(entries)

			solution, err := optimizer.New(points, oracle, params).Solve(cmd.Context())
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			if err := render.SolutionMap(outPath, points, solution, opts); err != nil {
				return err
			}

			if !solution.Feasible {
				return fmt.Errorf("no valid solution found")
			}
			cmd.Printf("Wrote %s\n", outPath)
			return nil
		},
	}

	data.register(cmd)
	pflags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "output", "o", "solution.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "Image height in pixels")

	return cmd
}
