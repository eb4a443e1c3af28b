package audio

import "sync"

// Ring keeps the most recent samples written by the capture callback.
type Ring struct {
	mu   sync.Mutex
	buf  []float32
	head int
	full bool
}

func NewRing(size int) *Ring {
	return &Ring{buf: make([]float32, size)}
}

func (r *Ring) Write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(samples) >= len(r.buf) {
		copy(r.buf, samples[len(samples)-len(r.buf):])
		r.head = 0
		r.full = true
		return
	}
	for _, s := range samples {
		r.buf[r.head] = s
		r.head++
		if r.head == len(r.buf) {
			r.head = 0
			r.full = true
		}
	}
}

// Snapshot returns the buffered samples oldest first.
func (r *Ring) Snapshot() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]float32, r.head)
		copy(out, r.buf[:r.head])
		return out
	}
	out := make([]float32, len(r.buf))
	n := copy(out, r.buf[r.head:])
	copy(out[n:], r.buf[:r.head])
	return out
}

func (r *Ring) Reset() {
	r.mu.Lock()
	clear(r.buf)
	r.head = 0
	r.full = false
	r.mu.Unlock()
}
