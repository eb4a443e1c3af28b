package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/gesture"
)

var replayAll bool

func newReplayCmd() *cobra.Command {
	replayCmd := &cobra.Command{
		Use:   "replay [recording]",
		Short: "classify a hand landmark recording frame by frame",
		Args:  cobra.ExactArgs(1),
		RunE:  replayGestures,
	}
	replayCmd.Flags().BoolVar(&replayAll, "all", false, "print frames without events too")
	return replayCmd
}

// effectSummary lists what an effect does, or "" when it does nothing.
func effectSummary(eff gesture.Effect) string {
	var parts []string
	for _, p := range eff.Pulses {
		parts = append(parts, p.Gesture)
	}
	if eff.ZoomFactor != 1 {
		parts = append(parts, fmt.Sprintf("zoom x%.3f", eff.ZoomFactor))
	}
	if eff.PanDelta.Len() > 0 {
		parts = append(parts, fmt.Sprintf("pan %+.3f,%+.3f", eff.PanDelta[0], eff.PanDelta[1]))
	}
	if eff.ResetView {
		parts = append(parts, "reset")
	}
	if eff.ModeToggled {
		parts = append(parts, "toggle")
	}
	if eff.CyclePalette {
		parts = append(parts, "palette")
	}
	if eff.TimeDelta != 0 {
		parts = append(parts, fmt.Sprintf("time %+.2f", eff.TimeDelta))
	}
	return strings.Join(parts, " ")
}

func replayGestures(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rec, err := gesture.LoadRecording(args[0])
	if err != nil {
		return err
	}

	classifier := gesture.NewClassifier()
	machine := gesture.NewMachine()
	sens := gesture.Sensitivity{Pinch: cfg.PinchSensitivity, Attraction: cfg.AttractionSensitivity}
	dt := 1 / rec.FPS

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tTIME\tHANDS\tLABEL\tMODE\tEFFECT")
	labels := map[string]int{}
	for i := range rec.Frames {
		snap := classifier.Classify(rec.Hands(i))
		eff := machine.Step(snap, dt, sens)
		labels[snap.Label]++
		summary := effectSummary(eff)
		if summary == "" && !replayAll {
			continue
		}
		fmt.Fprintf(w, "%d\t%.2fs\t%d\t%s\t%s\t%s\n", i, float64(i)*dt, snap.HandsCount, snap.Label, machine.Mode, summary)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "\n%d frames at %.0f fps\n", len(rec.Frames), rec.FPS)
	for _, name := range names {
		fmt.Fprintf(out, "  %-20s %d\n", name, labels[name])
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [group]",
		Short: "list starting scenes, animations and music presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			groups := config.Groups()
			if len(args) > 0 {
				if config.ListPresets(args[0]) == nil {
					fmt.Fprintf(out, "no presets for group: %s\n", args[0])
					return nil
				}
				groups = args[:1]
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tMODE\tANIMATION\tPALETTE")
			for _, g := range groups {
				for _, name := range config.ListPresets(g) {
					p := config.GetPreset(g, name)
					anim := p.Animation
					if anim == "" {
						anim = director.None.String()
					}
					fmt.Fprintf(w, "%s/%s\t%s\t%s\t%d\n", g, name, p.Mode, anim, p.ColorMode)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(args) > 0 {
				return nil
			}

			fmt.Fprintln(out, "\nanimations:")
			for _, p := range director.Presets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			fmt.Fprintln(out, "\nmusic presets:")
			music := make([]string, 0, len(config.MusicLevels))
			for name := range config.MusicLevels {
				music = append(music, name)
			}
			sort.Strings(music)
			for _, name := range music {
				fmt.Fprintf(out, "  %-10s %.1fx\n", name, config.MusicLevels[name])
			}
			fmt.Fprintf(out, "  %-10s audio_sensitivity\n", config.MusicCustom)
			return nil
		},
	}
}
