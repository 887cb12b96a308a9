// Package eeg is the decision core's debug sink. During a tick the core logs lines,
// queues drawables and tracks named events; Show then packages them into a Frame
// and hands it to a background worker that fans it out to consumers.
//
// The sink never blocks the tick: if the worker falls behind, frames are dropped.
// Every method is safe on a nil *EEG, so the core runs the same with no sink at all.
package eeg

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cxd309/pilot-engine/internal/world"
)

// DefaultQueueSize is the number of frames buffered ahead of the worker.
const DefaultQueueSize = 64

// LogLine is one categorised message.
type LogLine struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Frame is everything the core showed for one tick.
type Frame struct {
	ID        uuid.UUID    `json:"id"`
	Session   uuid.UUID    `json:"session"`
	Seq       uint64       `json:"seq"`
	Packet    world.Packet `json:"packet"`
	Drawables []Drawable   `json:"drawables"`
	Logs      []LogLine    `json:"logs"`
}

// Consumer receives frames on the worker goroutine.
type Consumer interface {
	Consume(Frame)
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(Frame)

func (f ConsumerFunc) Consume(fr Frame) { f(fr) }

// Options configures New.
type Options struct {
	Logger    *slog.Logger
	QueueSize int
	Consumers []Consumer
}

// EEG buffers one tick's debug output and ships it asynchronously.
type EEG struct {
	logger    *slog.Logger
	session   uuid.UUID
	consumers []Consumer

	// per-tick state, owned by the tick goroutine
	draws  []Drawable
	logs   []LogLine
	events []string
	seq    uint64

	mu      sync.Mutex // guards queue sends against Close
	closed  bool
	queue   chan Frame
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// New starts the worker. Close must be called to drain and join it.
func New(opts Options) *EEG {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	e := &EEG{
		logger:    opts.Logger.With("component", "eeg"),
		session:   uuid.New(),
		consumers: slices.Clone(opts.Consumers),
		queue:     make(chan Frame, opts.QueueSize),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

func (e *EEG) run() {
	defer e.wg.Done()
	for f := range e.queue {
		for _, c := range e.consumers {
			safeConsume(c, f)
		}
	}
}

// safeConsume shields the worker from a panicking consumer.
func safeConsume(c Consumer, f Frame) {
	defer func() {
		_ = recover()
	}()
	c.Consume(f)
}

// Session identifies this sink instance in every frame it emits.
func (e *EEG) Session() uuid.UUID {
	if e == nil {
		return uuid.Nil
	}
	return e.session
}

// Log records a categorised message for the current tick.
func (e *EEG) Log(category, message string) {
	if e == nil {
		return
	}
	e.logs = append(e.logs, LogLine{Category: category, Message: message})
	e.logger.Debug(message, "category", category)
}

// Logf is Log with formatting.
func (e *EEG) Logf(category, format string, args ...any) {
	if e == nil {
		return
	}
	e.Log(category, fmt.Sprintf(format, args...))
}

// Draw queues a drawable for the current tick.
func (e *EEG) Draw(d Drawable) {
	if e == nil {
		return
	}
	e.draws = append(e.draws, d)
}

// Track records that a named event happened. Events persist for the sink's
// lifetime and are reported once each, in first-seen order.
func (e *EEG) Track(event string) {
	if e == nil || slices.Contains(e.events, event) {
		return
	}
	e.events = append(e.events, event)
}

// Events returns the tracked events in first-seen order.
func (e *EEG) Events() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.events)
}

// Show packages the current tick's output with packet and enqueues it without
// blocking, then resets the per-tick buffers.
func (e *EEG) Show(packet world.Packet) {
	if e == nil {
		return
	}
	e.seq++
	f := Frame{
		ID:        uuid.New(),
		Session:   e.session,
		Seq:       e.seq,
		Packet:    packet,
		Drawables: e.draws,
		Logs:      e.logs,
	}
	e.draws, e.logs = nil, nil

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.dropped.Add(1)
		return
	}
	select {
	case e.queue <- f:
	default:
		if e.dropped.Add(1) == 1 {
			e.logger.Warn("eeg queue full, dropping frames", "seq", f.Seq)
		}
	}
}

// Dropped is the number of frames discarded because the queue was full or closed.
func (e *EEG) Dropped() uint64 {
	if e == nil {
		return 0
	}
	return e.dropped.Load()
}

// Close stops accepting frames, lets the worker deliver what is queued, and waits
// for it to exit. Safe to call more than once.
func (e *EEG) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()
	e.wg.Wait()
}
