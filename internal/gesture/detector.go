package gesture

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultRatio     = 2
	DefaultFrameRate = 30.0
)

// Detector polls a Source on its own goroutine and publishes classified
// snapshots to a Store. It runs detection on every ratio-th video frame.
type Detector struct {
	source     Source
	store      *Store
	classifier *Classifier
	ratio      uint64
	interval   time.Duration

	frames atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Detector)

// WithRatio sets how many video frames pass per detection. Values below 1
// are treated as 1.
func WithRatio(n int) Option {
	return func(d *Detector) {
		if n < 1 {
			n = 1
		}
		d.ratio = uint64(n)
	}
}

func WithFrameRate(fps float64) Option {
	return func(d *Detector) {
		if fps > 0 {
			d.interval = time.Duration(float64(time.Second) / fps)
		}
	}
}

func NewDetector(src Source, store *Store, opts ...Option) *Detector {
	d := &Detector{
		source:     src,
		store:      store,
		classifier: NewClassifier(),
		ratio:      DefaultRatio,
		interval:   time.Second / DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) Store() *Store { return d.store }

// Start stops any running loop, opens the source and starts polling. It
// returns false, leaving the detector stopped, if the source cannot open.
func (d *Detector) Start(ctx context.Context) bool {
	d.Stop()
	if err := d.source.Open(ctx); err != nil {
		log.Printf("gesture: start failed: %v", err)
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.mu.Lock()
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()
	d.frames.Store(0)
	d.classifier = NewClassifier()

	go d.run(loopCtx, done)
	return true
}

func (d *Detector) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Frame(ctx)
		}
	}
}

// Frame advances the video clock by one frame and detects on the first
// frame of every ratio-sized group. It reports whether a snapshot was
// published.
func (d *Detector) Frame(ctx context.Context) bool {
	n := d.frames.Add(1)
	if (n-1)%d.ratio != 0 {
		return false
	}
	hands, err := d.source.Detect(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("gesture: detect failed: %v", err)
		}
		return false
	}
	d.store.Publish(d.classifier.Classify(hands))
	return true
}

// Running reports whether the polling loop is active.
func (d *Detector) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Stop cancels the loop, waits for it to exit, closes the source and
// clears the store. Safe to call repeatedly.
func (d *Detector) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	<-done
	if err := d.source.Close(); err != nil {
		log.Printf("gesture: close failed: %v", err)
	}
	d.store.Clear()
}
