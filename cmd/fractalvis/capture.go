package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/fractalvis/internal/config"
	"github.com/san-kum/fractalvis/internal/director"
	"github.com/san-kum/fractalvis/internal/render"
	"github.com/san-kum/fractalvis/internal/storage"
)

var (
	pngOut   string
	warmup   float64
	pngFPS   int
	pngWidth int

	gifOut   string
	seconds  float64
	gifFPS   int
	gifWidth int

	save bool
)

func newRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render one frame to PNG",
		Args:  cobra.NoArgs,
		RunE:  renderPNG,
	}
	renderCmd.Flags().StringVarP(&pngOut, "out", "o", "fractal.png", "output file")
	renderCmd.Flags().Float64Var(&warmup, "warmup", 1.0, "seconds to advance before capturing")
	renderCmd.Flags().IntVar(&pngFPS, "fps", 30, "simulation rate during warmup")
	renderCmd.Flags().IntVar(&pngWidth, "max-width", 0, "downscale to this width (0 keeps full size)")
	renderCmd.Flags().BoolVar(&save, "save", false, "store in the capture gallery instead of --out")
	return renderCmd
}

func newRecordCmd() *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "render an animated GIF",
		Args:  cobra.NoArgs,
		RunE:  recordGIF,
	}
	recordCmd.Flags().StringVarP(&gifOut, "out", "o", "fractal.gif", "output file")
	recordCmd.Flags().Float64Var(&seconds, "seconds", 4, "clip length")
	recordCmd.Flags().IntVar(&gifFPS, "fps", 15, "frames per second")
	recordCmd.Flags().IntVar(&gifWidth, "max-width", 480, "downscale to this width (0 keeps full size)")
	recordCmd.Flags().BoolVar(&save, "save", false, "store in the capture gallery instead of --out")
	return recordCmd
}

// headless opens a CPU session with whatever devices cfg asks for.
func headless(ctx context.Context, cfg *config.Config) (*director.Session, error) {
	backend, err := render.Select("cpu", cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	det, snd, err := devices(cfg)
	if err != nil {
		return nil, err
	}
	opts := []director.SessionOption{director.WithAudio(snd)}
	if det != nil {
		opts = append(opts, director.WithDetector(det))
	}
	return director.NewSession(ctx, cfg, backend, opts...)
}

func frameCount(secs float64, rate int) int {
	return max(1, int(secs*float64(rate)+0.5))
}

func renderPNG(cmd *cobra.Command, args []string) error {
	if pngFPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", pngFPS)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sess, err := headless(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	start := time.Now()
	n := frameCount(warmup, pngFPS)
	dt := 1 / float64(pngFPS)
	for i := 0; i < n; i++ {
		if _, err := sess.Frame(ctx, dt); err != nil {
			return err
		}
	}
	img := sess.CaptureImage()
	if img == nil {
		return render.ErrNoFrame
	}

	b := img.Bounds()
	where, err := output(cfg, pngOut, storage.Capture{
		Kind:   storage.KindPNG,
		Width:  b.Dx(),
		Height: b.Dy(),
		Frames: 1,
		Encode: func(w io.Writer) error { return render.EncodePNG(w, img, pngWidth) },
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d, %s) in %v\n", where, b.Dx(), b.Dy(), cfg.Mode, time.Since(start).Round(time.Millisecond))
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	if gifFPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", gifFPS)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	sess, err := headless(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	rec := render.NewGIFRecorder(gifFPS, gifWidth)
	n := frameCount(seconds, gifFPS)
	dt := 1 / float64(gifFPS)
	timeline := make([]storage.Sample, 0, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := sess.Frame(ctx, dt); err != nil {
			return err
		}
		rec.Add(sess.CaptureImage())
		timeline = append(timeline, sample(float64(i)*dt, sess.Director().Active()))
	}

	where, err := output(cfg, gifOut, storage.Capture{
		Kind:     storage.KindGIF,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Frames:   rec.Len(),
		Timeline: timeline,
		Encode:   rec.Encode,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames) in %v\n", where, rec.Len(), time.Since(start).Round(time.Millisecond))
	return nil
}

func sample(t float64, u *render.Uniforms) storage.Sample {
	return storage.Sample{
		Time:    t,
		Zoom:    u.Zoom,
		PanX:    u.Pan[0],
		PanY:    u.Pan[1],
		Mode:    u.Mode,
		Palette: u.ColorMode,
		Iter:    int(u.MaxIter),
	}
}

// output stores c in the gallery with --save and writes it to path
// otherwise. It returns where the image ended up.
func output(cfg *config.Config, path string, c storage.Capture) (string, error) {
	if save {
		st := storage.New(dataDir)
		id, err := st.Save(cfg, c)
		if err != nil {
			return "", err
		}
		meta, err := st.Load(id)
		if err != nil {
			return "", err
		}
		return st.ImagePath(meta), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
