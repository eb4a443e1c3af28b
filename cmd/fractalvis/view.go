package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/gui"
	"github.com/san-kum/fractalvis/internal/render"
	"github.com/san-kum/fractalvis/internal/tui"
)

var (
	braille bool
	theme   string
	logFile string
)

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "explore in a GPU window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	det, snd, err := devices(cfg)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), gui.Options{
		Config:     cfg,
		Detector:   det,
		Audio:      snd,
		CaptureDir: captureDir,
	})
}

func newTUICmd() *cobra.Command {
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "explore in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().BoolVar(&braille, "braille", false, "render monochrome braille dots")
	tuiCmd.Flags().StringVar(&theme, "theme", "mono", "panel theme ("+strings.Join(tui.ThemeNames(), ", ")+")")
	tuiCmd.Flags().StringVar(&logFile, "log", "", "write logs to this file")
	return tuiCmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	det, snd, err := devices(cfg)
	if err != nil {
		return err
	}
	opts := []director.SessionOption{director.WithAudio(snd)}
	if det != nil {
		opts = append(opts, director.WithDetector(det))
	}

	ctx := cmd.Context()
	sess, err := director.NewSession(ctx, cfg, render.NewCPUBackend(), opts...)
	if err != nil {
		return err
	}
	defer sess.Close()

	return tui.Run(ctx, sess, tui.Options{
		Braille:    braille,
		Theme:      theme,
		LogFile:    logFile,
		CaptureDir: captureDir,
	})
}
