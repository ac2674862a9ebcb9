package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMeshCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mesh",
		Short: "Print sphere and orbit trail mesh statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := opts.settings.NewWorld()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sphere := world.Sphere()
			lo, hi := sphere.Bounds()
			fmt.Fprintf(out, "sphere %dx%d r=%.2f: %d vertices, %d indices (%d triangles)\n",
				opts.settings.World.SphereHorizontal, opts.settings.World.SphereVertical,
				opts.settings.World.SphereRadius,
				sphere.VertexCount(), len(sphere.Indices), len(sphere.Indices)/3)
			fmt.Fprintf(out, "bounds: (%.2f, %.2f, %.2f) .. (%.2f, %.2f, %.2f)\n\n",
				lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BODY\tCENTER\tVERTICES\tSEGMENTS\tEXTENT X\tEXTENT Z")
			for _, b := range world.Bodies() {
				if b.Center == b.Name {
					continue
				}
				trail, _, err := world.Trail(b.Name)
				if err != nil {
					return err
				}
				tlo, thi := trail.Bounds()
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.2f\n",
					b.Name, b.Center, trail.VertexCount(), len(trail.Indices)/2,
					thi[0]-tlo[0], thi[2]-tlo[2])
			}
			return tw.Flush()
		},
	}
}
