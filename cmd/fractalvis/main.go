package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fractalvis/internal/audio"
	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/gesture"
	"github.com/san-kum/fractalvis/internal/telemetry"
)

var (
	configFile  string
	preset      string
	gestureFile string
	captureDir  string
	dataDir     string

	mode        string
	iterations  int
	power       float64
	palette     int
	animation   string
	morphSpeed  float64
	musicPreset string
	audioSource string
	width       int
	height      int
	interactive bool
	music       bool

	shutdownTracing func(context.Context) error
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fractalvis",
		Short: "interactive fractal explorer",
		// Default to the window when no command is given.
		RunE: runGUI,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			shutdown, err := telemetry.Setup(cmd.Context(), "fractalvis")
			if err != nil {
				log.Printf("telemetry: %v", err)
			}
			shutdownTracing = shutdown
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shutdownTracing != nil {
				return shutdownTracing(context.Background())
			}
			return nil
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "starting scene as group/name (see presets)")
	pf.StringVar(&gestureFile, "gestures", "", "hand landmark recording to drive interactive mode")
	pf.StringVar(&captureDir, "capture-dir", ".", "directory for screenshots and recordings")
	pf.StringVar(&dataDir, "data", ".fractalvis", "capture gallery directory")
	pf.StringVar(&mode, "mode", "", "fractal mode")
	pf.IntVar(&iterations, "iterations", config.DefaultIterations, "maximum iterations")
	pf.Float64Var(&power, "power", config.DefaultPower, "mandelbulb power")
	pf.IntVar(&palette, "palette", config.DefaultColorMode, "color palette index")
	pf.StringVar(&animation, "animation", "", "animation preset ("+strings.Join(config.Animations, ", ")+")")
	pf.Float64Var(&morphSpeed, "morph-speed", config.DefaultMorphSpeed, "evolution speed")
	pf.StringVar(&musicPreset, "music-preset", "", "music response (gentle, moderate, intense, custom)")
	pf.StringVar(&audioSource, "audio-source", "", "audio capture (system, microphone)")
	pf.IntVar(&width, "width", config.DefaultWidth, "render width")
	pf.IntVar(&height, "height", config.DefaultHeight, "render height")
	pf.BoolVar(&interactive, "interactive", false, "start in gesture mode")
	pf.BoolVar(&music, "music", false, "start in music mode")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	rootCmd.AddCommand(
		newGUICmd(),
		newTUICmd(),
		newRenderCmd(),
		newRecordCmd(),
		newBenchCmd(),
		newListenCmd(),
		newReplayCmd(),
		newPresetsCmd(),
		newCapturesCmd(),
		configCmd,
	)
	return rootCmd
}

// loadConfig layers defaults, preset, config file, environment and changed
// flags, in that order, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("%w: %q (want group/name)", config.ErrUnknownPreset, preset)
		}
		p, err := config.Resolve(group, name)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if configFile != "" {
		if err := cfg.Merge(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("mode") {
		cfg.Mode = mode
	}
	if fl.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if fl.Changed("power") {
		cfg.Power = power
	}
	if fl.Changed("palette") {
		cfg.ColorMode = palette
	}
	if fl.Changed("animation") {
		cfg.Animation = animation
	}
	if fl.Changed("morph-speed") {
		cfg.MorphSpeed = morphSpeed
	}
	if fl.Changed("music-preset") {
		cfg.MusicPreset = musicPreset
	}
	if fl.Changed("audio-source") {
		cfg.AudioSource = audioSource
	}
	if fl.Changed("width") {
		cfg.Width = width
	}
	if fl.Changed("height") {
		cfg.Height = height
	}
	if fl.Changed("interactive") {
		cfg.Interactive = interactive
	}
	if fl.Changed("music") {
		cfg.Music = music
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// devices builds the capture devices. The detector is nil unless a gesture
// recording was given.
func devices(cfg *config.Config) (*gesture.Detector, *audio.Session, error) {
	snd := audio.NewSession(audio.NewPortAudio())
	if gestureFile == "" {
		return nil, snd, nil
	}
	rec, err := gesture.LoadRecording(gestureFile)
	if err != nil {
		return nil, nil, err
	}
	det := gesture.NewDetector(gesture.NewReplay(rec), gesture.NewStore(),
		gesture.WithRatio(cfg.DetectionRatio),
		gesture.WithFrameRate(rec.FPS),
	)
	return det, snd, nil
}
