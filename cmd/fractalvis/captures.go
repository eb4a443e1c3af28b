package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/storage"
)

func newCapturesCmd() *cobra.Command {
	capturesCmd := &cobra.Command{
		Use:   "captures",
		Short: "list captures saved with --save",
		Args:  cobra.NoArgs,
		RunE:  listCaptures,
	}
	capturesCmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "show a capture and plot its zoom over time",
		Args:  cobra.ExactArgs(1),
		RunE:  showCapture,
	})
	return capturesCmd
}

func listCaptures(cmd *cobra.Command, args []string) error {
	captures, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(captures) == 0 {
		fmt.Fprintln(out, "no captures found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tMODE\tANIMATION\tSIZE\tFRAMES\tTIME")
	for _, c := range captures {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%s\n",
			c.ID,
			c.Kind,
			c.Mode,
			c.Animation,
			c.Width, c.Height,
			c.Frames,
			c.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func showCapture(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", st.ImagePath(meta))
	fmt.Fprintf(out, "  mode:       %s\n", meta.Mode)
	fmt.Fprintf(out, "  animation:  %s\n", meta.Animation)
	fmt.Fprintf(out, "  size:       %dx%d\n", meta.Width, meta.Height)
	fmt.Fprintf(out, "  frames:     %d\n", meta.Frames)
	fmt.Fprintf(out, "  iterations: %d\n", meta.Config.Iterations)
	fmt.Fprintf(out, "  palette:    %d\n", meta.Config.ColorMode)

	samples, err := st.LoadTimeline(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return nil
	}
	zoom := make([]float64, len(samples))
	for i, s := range samples {
		zoom[i] = math.Log10(s.Zoom)
	}
	graph := asciigraph.Plot(zoom,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("log10 zoom over %.1fs", samples[len(samples)-1].Time)),
	)
	fmt.Fprintf(out, "\n%s\n", graph)
	return nil
}
