package gesture

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	hands   []Hand
	openErr error
	detects atomic.Int32
	closes  atomic.Int32
}

func (c *countingSource) Open(context.Context) error { return c.openErr }

func (c *countingSource) Detect(context.Context) ([]Hand, error) {
	c.detects.Add(1)
	return c.hands, nil
}

func (c *countingSource) Close() error {
	c.closes.Add(1)
	return nil
}

func TestDetectorFrameInterval(t *testing.T) {
	d := NewDetector(Empty{}, NewStore())
	assert.Equal(t, 33333333*time.Nanosecond, d.interval)

	d = NewDetector(Empty{}, NewStore(), WithFrameRate(60))
	assert.Equal(t, time.Second/60, d.interval)
	d = NewDetector(Empty{}, NewStore(), WithFrameRate(0))
	assert.Equal(t, time.Second/DefaultFrameRate, d.interval, "non-positive rates keep the default")
}

func TestDetectorRatio(t *testing.T) {
	src := &countingSource{hands: []Hand{fistHand(0, 0)}}
	d := NewDetector(src, NewStore(), WithRatio(3))
	ctx := context.Background()

	published := 0
	for i := 0; i < 9; i++ {
		if d.Frame(ctx) {
			published++
		}
	}
	assert.Equal(t, 3, published)
	assert.EqualValues(t, 3, src.detects.Load())
	assert.Equal(t, LabelFist, d.Store().Latest().Label)
	assert.EqualValues(t, 3, d.Store().Latest().Seq)
}

func TestDetectorRatioBelowOne(t *testing.T) {
	src := &countingSource{}
	d := NewDetector(src, NewStore(), WithRatio(0))
	for i := 0; i < 4; i++ {
		assert.True(t, d.Frame(context.Background()))
	}
}

func TestDetectorStartStop(t *testing.T) {
	src := &countingSource{hands: []Hand{openHand(0)}}
	store := NewStore()
	d := NewDetector(src, store, WithRatio(1), WithFrameRate(500))

	require.True(t, d.Start(context.Background()))
	assert.True(t, d.Running())
	assert.Eventually(t, func() bool { return store.Latest().Label == LabelPalm }, time.Second, 2*time.Millisecond)

	d.Stop()
	assert.False(t, d.Running())
	assert.EqualValues(t, 1, src.closes.Load())
	assert.Equal(t, LabelNoHands, store.Latest().Label, "stop clears the snapshot")

	n := src.detects.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, src.detects.Load(), "no detection after Stop returns")

	d.Stop()
	assert.EqualValues(t, 1, src.closes.Load(), "stop is idempotent")
}

func TestDetectorStartFailure(t *testing.T) {
	src := &countingSource{openErr: errors.New("camera denied")}
	d := NewDetector(src, NewStore())
	assert.False(t, d.Start(context.Background()))
	assert.False(t, d.Running())
	d.Stop()
	assert.Zero(t, src.closes.Load())
}

func TestDetectorRestart(t *testing.T) {
	src := &countingSource{}
	d := NewDetector(src, NewStore(), WithFrameRate(500))
	require.True(t, d.Start(context.Background()))
	require.True(t, d.Start(context.Background()))
	assert.EqualValues(t, 1, src.closes.Load(), "restart closes the previous session")
	d.Stop()
	assert.EqualValues(t, 2, src.closes.Load())
}

func TestStoreNeverTorn(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			v := float64(i)
			st.Publish(Snapshot{HandsCount: 1, HandsApart: v, Label: LabelFist, Fist: true})
			st.Publish(Snapshot{HandsCount: 2, HandsApart: -v, Label: LabelClap, Clap: true})
		}
	}()

	for i := 0; i < 10000; i++ {
		s := st.Latest()
		switch s.Label {
		case LabelFist:
			assert.True(t, s.Fist && s.HandsCount == 1 && s.HandsApart >= 0)
		case LabelClap:
			assert.True(t, s.Clap && s.HandsCount == 2 && s.HandsApart <= 0)
		}
	}
	close(stop)
	wg.Wait()
}

func TestReplayLoops(t *testing.T) {
	rec := &Recording{FPS: 10, Frames: []RecordFrame{
		{Hands: [][]Landmark{fistHand(0, 0).Points()}},
		{},
	}}
	r := NewReplay(rec)
	ctx := context.Background()

	_, err := r.Detect(ctx)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	require.NoError(t, r.Open(ctx))
	for i := 0; i < 4; i++ {
		hands, err := r.Detect(ctx)
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Len(t, hands, 1)
		} else {
			assert.Empty(t, hands)
		}
	}
	require.NoError(t, r.Close())
}

func TestRecordingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hands.yaml")
	rec := &Recording{FPS: 12, Frames: []RecordFrame{{Hands: [][]Landmark{victoryHand().Points()}}}}
	require.NoError(t, rec.Save(path))

	loaded, err := LoadRecording(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, loaded.FPS)
	hands := loaded.Hands(0)
	require.Len(t, hands, 1)
	assert.Equal(t, victoryHand(), hands[0])
}

func TestParseRecordingErrors(t *testing.T) {
	_, err := ParseRecording([]byte("fps: 10\nframes: []\n"))
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = ParseRecording([]byte("frames:\n  - hands:\n      - [[0.5, 0.5, 0]]\n"))
	assert.ErrorIs(t, err, ErrBadHand)

	_, err = ParseRecording([]byte("frames:\n  - hands:\n      - [[0.5, 0.5]]\n"))
	assert.ErrorIs(t, err, ErrBadHand)
}
