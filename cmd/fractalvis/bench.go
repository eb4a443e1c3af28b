package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/fractal"
	"github.com/san-kum/fractalvis/internal/render"
)

var benchFrames int

func newBenchCmd() *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time CPU frames for every fractal mode",
		Args:  cobra.NoArgs,
		RunE:  benchModes,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 5, "frames per mode")
	return benchCmd
}

func benchModes(cmd *cobra.Command, args []string) error {
	if benchFrames < 1 {
		return fmt.Errorf("frames must be positive, got %d", benchFrames)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Interactive, cfg.Music = false, false
	cfg.Animation = director.None.String()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "benchmarking %dx%d, %d iterations\n\n", cfg.Width, cfg.Height, cfg.Iterations)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tFRAMES\tTIME\tMS/FRAME\tFPS")

	msPerFrame := make([]float64, 0, fractal.NumModes)
	for _, m := range fractal.Modes() {
		cfg.Mode = m.String()
		sess, err := director.NewSession(ctx, cfg, render.NewCPUBackend())
		if err != nil {
			return err
		}
		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			if _, err := sess.Frame(ctx, 1.0/60); err != nil {
				sess.Close()
				return err
			}
		}
		elapsed := time.Since(start)
		sess.Close()

		ms := float64(elapsed.Microseconds()) / 1000 / float64(benchFrames)
		msPerFrame = append(msPerFrame, ms)
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.1f\n", m, benchFrames, elapsed.Round(time.Millisecond), ms, 1000/ms)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	graph := asciigraph.Plot(msPerFrame,
		asciigraph.Height(10),
		asciigraph.Width(fractal.NumModes*8),
		asciigraph.Precision(1),
		asciigraph.Caption("ms/frame by mode (left to right as listed)"),
	)
	fmt.Fprintf(out, "\n%s\n", graph)
	return nil
}
