package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	startErr error
	started  bool
	closed   int
}

func (f *fakeStream) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	return nil
}

func (f *fakeStream) Close() error {
	f.closed++
	return nil
}

type fakeSource struct {
	openErr  error
	startErr error
	streams  []*fakeStream
	sink     func([]float32)
}

func (f *fakeSource) Open(kind SourceKind, sink func([]float32)) (Stream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	s := &fakeStream{startErr: f.startErr}
	f.streams = append(f.streams, s)
	f.sink = sink
	return s, nil
}

func TestSessionStartStop(t *testing.T) {
	src := &fakeSource{}
	s := NewSession(src)

	require.True(t, s.Start(Microphone))
	assert.True(t, s.Active())
	kind, ok := s.Kind()
	assert.True(t, ok)
	assert.Equal(t, Microphone, kind)

	src.sink(sine(200, FFTSize, 0.5))
	res := s.Analysis()
	assert.Greater(t, res.Volume, 0.3)

	s.Stop()
	assert.False(t, s.Active())
	assert.Equal(t, 1, src.streams[0].closed)
	s.Stop()
	assert.Equal(t, 1, src.streams[0].closed, "stop is idempotent")
	assert.Equal(t, Analysis{}, s.Analysis())
}

func TestSessionStartReplacesPrevious(t *testing.T) {
	src := &fakeSource{}
	s := NewSession(src)
	require.True(t, s.Start(Microphone))
	src.sink(sine(200, FFTSize, 0.5))
	require.True(t, s.Start(System))

	require.Len(t, src.streams, 2)
	assert.Equal(t, 1, src.streams[0].closed)
	assert.Zero(t, src.streams[1].closed)
	kind, _ := s.Kind()
	assert.Equal(t, System, kind)
	assert.Zero(t, s.Analysis().Volume, "samples from the old stream are dropped")
	s.Stop()
}

func TestSessionOpenFailure(t *testing.T) {
	src := &fakeSource{openErr: ErrNoInputChannel}
	s := NewSession(src)
	assert.False(t, s.Start(System))
	assert.False(t, s.Active())
}

func TestSessionStartFailureReleasesStream(t *testing.T) {
	src := &fakeSource{startErr: errors.New("permission denied")}
	s := NewSession(src)
	assert.False(t, s.Start(Microphone))
	assert.False(t, s.Active())
	require.Len(t, src.streams, 1)
	assert.Equal(t, 1, src.streams[0].closed)
}
