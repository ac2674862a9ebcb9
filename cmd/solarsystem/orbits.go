package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"solarsystem/core"
)

type orbitsOptions struct {
	duration float64
	step     float64
	every    int
	planets  []string
	asJSON   bool
}

// orbitSample is one JSON line of the orbits output.
type orbitSample struct {
	Time   float64          `json:"time"`
	Bodies []core.BodyState `json:"bodies"`
}

func newOrbitsCmd(opts *options) *cobra.Command {
	o := &orbitsOptions{}
	cmd := &cobra.Command{
		Use:   "orbits",
		Short: "Simulate without a window and print body positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := opts.settings.NewWorld()
			if err != nil {
				return err
			}
			for _, name := range o.planets {
				if _, err := world.Body(name); err != nil {
					return err
				}
			}
			return o.run(cmd.OutOrStdout(), world)
		},
	}

	cmd.Flags().Float64Var(&o.duration, "duration", 10, "simulated seconds")
	cmd.Flags().Float64Var(&o.step, "step", 0.1, "simulation step in seconds")
	cmd.Flags().IntVar(&o.every, "every", 10, "print every n-th step")
	cmd.Flags().StringSliceVarP(&o.planets, "planet", "p", nil, "only print these bodies")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print one JSON object per sample")
	return cmd
}

// run steps world from time 0 to duration, printing the first sample, every
// n-th step after it and the last step.
func (o *orbitsOptions) run(w io.Writer, world *core.World) error {
	if o.step <= 0 {
		return fmt.Errorf("step must be positive, got %v", o.step)
	}
	if o.every < 1 {
		o.every = 1
	}

	steps := int(o.duration / o.step)
	world.Update(0)
	if err := o.print(w, 0, world); err != nil {
		return err
	}
	for i := 1; i <= steps; i++ {
		now := float64(i) * o.step
		world.Update(now)
		if i%o.every == 0 || i == steps {
			if err := o.print(w, now, world); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *orbitsOptions) print(w io.Writer, now float64, world *core.World) error {
	bodies := o.filter(world.Bodies())
	if o.asJSON {
		return json.NewEncoder(w).Encode(orbitSample{Time: now, Bodies: bodies})
	}
	if _, err := fmt.Fprintf(w, "t=%.2f\n", now); err != nil {
		return err
	}
	for _, b := range bodies {
		if _, err := fmt.Fprintf(w, "  %s\n", core.FormatBodyLine(b)); err != nil {
			return err
		}
	}
	return nil
}

func (o *orbitsOptions) filter(bodies []core.BodyState) []core.BodyState {
	if len(o.planets) == 0 {
		return bodies
	}
	keep := make(map[string]bool, len(o.planets))
	for _, name := range o.planets {
		keep[name] = true
	}
	out := bodies[:0]
	for _, b := range bodies {
		if keep[b.Name] {
			out = append(out, b)
		}
	}
	return out
}
