package audio

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// SourceKind selects what to capture.
type SourceKind int

const (
	Microphone SourceKind = iota
	System
)

func (k SourceKind) String() string {
	if k == System {
		return "system"
	}
	return "microphone"
}

func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "microphone", "mic", "":
		return Microphone, nil
	case "system", "loopback", "browser_tab", "tab":
		return System, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Stream is an open capture stream. Close stops capture and releases the
// device; it is only called once.
type Stream interface {
	Start() error
	Close() error
}

// Source opens capture streams that push PCM into sink from a callback
// goroutine.
type Source interface {
	Open(kind SourceKind, sink func([]float32)) (Stream, error)
}

// Session owns at most one capture stream and the analyzer state fed by it.
type Session struct {
	source   Source
	ring     *Ring
	analyzer *Analyzer

	mu     sync.Mutex
	stream Stream
	kind   SourceKind
}

func NewSession(src Source) *Session {
	a := NewAnalyzer()
	return &Session{
		source:   src,
		ring:     NewRing(a.Size()),
		analyzer: a,
	}
}

// Start tears down any running capture and opens a new one. It returns
// false, leaving the session inactive, if the device cannot be used.
func (s *Session) Start(kind SourceKind) bool {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring.Reset()
	s.analyzer.Reset()

	stream, err := s.source.Open(kind, s.ring.Write)
	if err != nil {
		log.Printf("audio: start %s failed: %v", kind, err)
		return false
	}
	if err := stream.Start(); err != nil {
		log.Printf("audio: start %s failed: %v", kind, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err))
		if cerr := stream.Close(); cerr != nil {
			log.Printf("audio: close failed: %v", cerr)
		}
		return false
	}
	s.stream = stream
	s.kind = kind
	return true
}

// Stop releases the stream. Safe to call when already stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	stream := s.stream
	s.stream = nil
	s.mu.Unlock()
	if stream == nil {
		return
	}
	if err := stream.Close(); err != nil {
		log.Printf("audio: stop failed: %v", err)
	}
}

func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Kind reports the active source kind and whether capture is running.
func (s *Session) Kind() (SourceKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind, s.stream != nil
}

// Analysis computes features from the latest samples. It returns a zero
// Analysis while inactive.
func (s *Session) Analysis() Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return Analysis{}
	}
	return s.analyzer.Analyze(s.ring.Snapshot())
}
