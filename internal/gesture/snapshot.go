package gesture

import "sync"

// Store hands the latest snapshot from the detector goroutine to the
// render tick. Reads and writes copy the whole value under the lock.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{snap: EmptySnapshot()}
}

// Publish stores s and stamps it with the next sequence number.
func (st *Store) Publish(s Snapshot) uint64 {
	st.mu.Lock()
	s.Seq = st.snap.Seq + 1
	st.snap = s
	st.mu.Unlock()
	return s.Seq
}

func (st *Store) Latest() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap
}

// Clear publishes the no-hands snapshot.
func (st *Store) Clear() {
	st.Publish(EmptySnapshot())
}
