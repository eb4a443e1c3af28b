package gesture

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source produces hand landmarks. Open acquires the underlying device and
// Close releases it; Detect may be called any number of times in between.
type Source interface {
	Open(ctx context.Context) error
	Detect(ctx context.Context) ([]Hand, error)
	Close() error
}

// Empty never sees any hands.
type Empty struct{}

func (Empty) Open(context.Context) error             { return nil }
func (Empty) Detect(context.Context) ([]Hand, error) { return nil, nil }
func (Empty) Close() error                           { return nil }

// Recording is a sequence of detection frames stored as YAML:
//
//	fps: 15
//	frames:
//	  - hands:
//	      - [[0.5, 0.5, 0], [0.52, 0.48, 0], ...]
type Recording struct {
	FPS    float64       `yaml:"fps"`
	Frames []RecordFrame `yaml:"frames"`
}

type RecordFrame struct {
	Hands [][]Landmark `yaml:"hands"`
}

// ParseRecording decodes and validates a recording.
func ParseRecording(data []byte) (*Recording, error) {
	var r Recording
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("gesture: parse recording: %w", err)
	}
	if len(r.Frames) == 0 {
		return nil, ErrNoFrames
	}
	for i, f := range r.Frames {
		for j, h := range f.Hands {
			if len(h) != NumLandmarks {
				return nil, fmt.Errorf("%w: frame %d hand %d has %d landmarks", ErrBadHand, i, j, len(h))
			}
		}
	}
	if r.FPS <= 0 {
		r.FPS = 15
	}
	return &r, nil
}

func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecording(data)
}

func (r *Recording) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Hands converts frame i into fixed-size hands.
func (r *Recording) Hands(i int) []Hand {
	f := r.Frames[i]
	out := make([]Hand, 0, len(f.Hands))
	for _, pts := range f.Hands {
		h, err := HandFromSlice(pts)
		if err != nil {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Replay plays a recording back in a loop, one frame per Detect call.
type Replay struct {
	rec *Recording

	mu   sync.Mutex
	next int
	open bool
}

func NewReplay(rec *Recording) *Replay {
	return &Replay{rec: rec}
}

func (r *Replay) Open(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec == nil || len(r.rec.Frames) == 0 {
		return ErrNoFrames
	}
	r.open = true
	r.next = 0
	return nil
}

func (r *Replay) Detect(ctx context.Context) ([]Hand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrSourceUnavailable
	}
	hands := r.rec.Hands(r.next)
	r.next = (r.next + 1) % len(r.rec.Frames)
	return hands, nil
}

func (r *Replay) Close() error {
	r.mu.Lock()
	r.open = false
	r.mu.Unlock()
	return nil
}
