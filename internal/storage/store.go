package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fractalvis/internal/config"
)

const (
	KindPNG = "png"
	KindGIF = "gif"
)

var (
	ErrUnknownKind = errors.New("storage: unknown capture kind")
	ErrNotFound    = errors.New("storage: capture not found")
)

// Store keeps one directory per capture under baseDir holding
// metadata.json, the image and, for animations, timeline.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Sample is the view state at one recorded frame.
type Sample struct {
	Time    float64
	Zoom    float64
	PanX    float64
	PanY    float64
	Mode    float64
	Palette float64
	Iter    int
}

// Capture is an encoded image ready to be stored.
type Capture struct {
	Kind          string
	Width, Height int
	Frames        int
	Timeline      []Sample
	Encode        func(w io.Writer) error
}

type CaptureMetadata struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	Mode      string        `json:"mode"`
	Animation string        `json:"animation"`
	Timestamp time.Time     `json:"timestamp"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Frames    int           `json:"frames"`
	Config    config.Config `json:"config"`
}

// ImagePath is where the capture's image lives.
func (s *Store) ImagePath(meta *CaptureMetadata) string {
	return filepath.Join(s.baseDir, meta.ID, "capture."+meta.Kind)
}

// Save writes c with cfg as its metadata and returns the new capture id.
func (s *Store) Save(cfg *config.Config, c Capture) (string, error) {
	if c.Kind != KindPNG && c.Kind != KindGIF {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	now := time.Now()
	id, dir, err := s.newDir(fmt.Sprintf("%s_%d", cfg.Mode, now.Unix()))
	if err != nil {
		return "", err
	}

	if err := s.write(dir, c, CaptureMetadata{
		ID:        id,
		Kind:      c.Kind,
		Mode:      cfg.Mode,
		Animation: cfg.Animation,
		Timestamp: now,
		Width:     c.Width,
		Height:    c.Height,
		Frames:    c.Frames,
		Config:    *cfg,
	}); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return id, nil
}

func (s *Store) write(dir string, c Capture, meta CaptureMetadata) error {
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}
	if err := writeWith(s.ImagePath(&meta), c.Encode); err != nil {
		return err
	}
	if len(c.Timeline) == 0 {
		return nil
	}
	return writeWith(filepath.Join(dir, "timeline.csv"), func(w io.Writer) error {
		return writeTimeline(w, c.Timeline)
	})
}

// newDir creates a fresh capture directory, suffixing base on collision.
func (s *Store) newDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	return writeWith(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

func writeWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var timelineHeader = []string{"time", "zoom", "pan_x", "pan_y", "mode", "palette", "iter"}

func writeTimeline(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(timelineHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Zoom, 'g', 10, 64),
			strconv.FormatFloat(s.PanX, 'f', 10, 64),
			strconv.FormatFloat(s.PanY, 'f', 10, 64),
			strconv.FormatFloat(s.Mode, 'f', 4, 64),
			strconv.FormatFloat(s.Palette, 'f', 4, 64),
			strconv.Itoa(s.Iter),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns every readable capture, oldest first.
func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	captures := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		captures = append(captures, *meta)
	}
	sort.SliceStable(captures, func(i, j int) bool {
		return captures[i].Timestamp.Before(captures[j].Timestamp)
	})
	return captures, nil
}

func (s *Store) Load(id string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", id, err)
	}
	return &meta, nil
}

// LoadTimeline reads the per-frame samples of an animated capture. Stills
// have none.
func (s *Store) LoadTimeline(id string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "timeline.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(timelineHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: timeline %s: %w", id, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		var v [6]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				return nil, fmt.Errorf("storage: timeline %s: %w", id, err)
			}
		}
		iter, err := strconv.Atoi(rec[6])
		if err != nil {
			return nil, fmt.Errorf("storage: timeline %s: %w", id, err)
		}
		samples = append(samples, Sample{
			Time: v[0], Zoom: v[1], PanX: v[2], PanY: v[3], Mode: v[4], Palette: v[5], Iter: iter,
		})
	}
	return samples, nil
}
