package main

import (
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/audio"
)

var (
	listenSeconds float64
	listenRate    int
)

func newListenCmd() *cobra.Command {
	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "capture audio and plot band energies",
		Args:  cobra.NoArgs,
		RunE:  listen,
	}
	listenCmd.Flags().Float64Var(&listenSeconds, "seconds", 10, "capture length")
	listenCmd.Flags().IntVar(&listenRate, "rate", 30, "analyses per second")
	return listenCmd
}

func listen(cmd *cobra.Command, args []string) error {
	if listenRate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", listenRate)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	snd := audio.NewSession(audio.NewPortAudio())
	if !snd.Start(cfg.Source()) {
		return fmt.Errorf("%w: %s", audio.ErrDeviceUnavailable, cfg.Source())
	}
	defer snd.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "listening to %s for %.0fs...\n", cfg.Source(), listenSeconds)

	var series [4][]float64
	beats := 0
	ticker := time.NewTicker(time.Second / time.Duration(listenRate))
	defer ticker.Stop()
	deadline := time.After(time.Duration(listenSeconds * float64(time.Second)))

loop:
	for {
		select {
		case <-cmd.Context().Done():
			break loop
		case <-deadline:
			break loop
		case <-ticker.C:
			a := snd.Analysis()
			for i, l := range a.Levels() {
				series[i] = append(series[i], l)
			}
			if a.IsBeat {
				beats++
			}
		}
	}

	if len(series[0]) < 2 {
		fmt.Fprintln(out, "not enough samples")
		return nil
	}
	graph := asciigraph.PlotMany(series[:],
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Yellow, asciigraph.Red, asciigraph.Green, asciigraph.Blue),
		asciigraph.SeriesLegends("volume", "bass", "mids", "treble"),
		asciigraph.Caption(fmt.Sprintf("%d analyses, %d beats", len(series[0]), beats)),
	)
	fmt.Fprintf(out, "\n%s\n", graph)
	return nil
}
