package eeg

import "sync"

// Recorder is a concurrency-safe in-memory Consumer.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Consume(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all recorded frames.
func (r *Recorder) Snapshot() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}
