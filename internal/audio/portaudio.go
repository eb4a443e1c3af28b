package audio

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate      = 44100
	FramesPerBuffer = 512
)

// LoopbackHints are substrings identifying devices that capture what the
// system is playing.
var LoopbackHints = []string{"monitor", "loopback", "stereo mix", "blackhole", "what u hear"}

// PortAudio captures from the default input device or a loopback device.
type PortAudio struct {
	SampleRate      float64
	FramesPerBuffer int
	Hints           []string
}

func NewPortAudio() *PortAudio {
	return &PortAudio{
		SampleRate:      SampleRate,
		FramesPerBuffer: FramesPerBuffer,
		Hints:           LoopbackHints,
	}
}

func (p *PortAudio) Open(kind SourceKind, sink func([]float32)) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	dev, err := p.device(kind)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if dev.MaxInputChannels < 1 {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %s", ErrNoInputChannel, dev.Name)
	}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	if p.SampleRate > 0 {
		params.SampleRate = p.SampleRate
	}
	params.FramesPerBuffer = p.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, func(in []float32) {
		sink(in)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %s: %w", ErrDeviceUnavailable, dev.Name, err)
	}
	return &paStream{stream: stream}, nil
}

func (p *PortAudio) device(kind SourceKind) (*portaudio.DeviceInfo, error) {
	if kind == Microphone {
		dev, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		return dev, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	if dev := FindLoopback(devices, p.Hints); dev != nil {
		return dev, nil
	}
	return nil, ErrNoLoopback
}

// FindLoopback returns the first capture-capable device whose name matches
// one of hints, case-insensitively.
func FindLoopback(devices []*portaudio.DeviceInfo, hints []string) *portaudio.DeviceInfo {
	for _, d := range devices {
		if d == nil || d.MaxInputChannels < 1 {
			continue
		}
		name := strings.ToLower(d.Name)
		for _, h := range hints {
			if strings.Contains(name, h) {
				return d
			}
		}
	}
	return nil
}

type paStream struct {
	stream *portaudio.Stream
	once   sync.Once
}

func (s *paStream) Start() error { return s.stream.Start() }

// Close stops the stream and terminates the device layer.
func (s *paStream) Close() error {
	var err error
	s.once.Do(func() {
		err = errors.Join(s.stream.Stop(), s.stream.Close(), portaudio.Terminate())
	})
	return err
}
