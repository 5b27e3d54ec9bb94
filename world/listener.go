package world

import (
	"errors"
	"log"
	"sync"
	"time"
)

// ResponseSource yields decoded response envelopes, blocking until one arrives.
type ResponseSource interface {
	ReadResponses() (*Responses, error)
}

// Interrupter is implemented by sources whose blocking reads can be cut short.
type Interrupter interface {
	Interrupt()
	Resume()
}

// Listener runs the single background loop that moves World responses from
// the stream into a sink (the event queue).
type Listener struct {
	sink        func(*Responses)
	retryDelay  time.Duration
	stopTimeout time.Duration
	logFn       LogFunc

	// OnStreamClosed is called once when the loop exits because the
	// stream ended rather than because Stop was called.
	OnStreamClosed func(err error)

	mu       sync.Mutex
	running  bool
	src      ResponseSource
	stopChan chan struct{}
	done     chan struct{}
}

func NewListener(sink func(*Responses), retryDelay, stopTimeout time.Duration, logFn LogFunc) *Listener {
	if logFn == nil {
		logFn = log.Printf
	}
	return &Listener{
		sink:        sink,
		retryDelay:  retryDelay,
		stopTimeout: stopTimeout,
		logFn:       logFn,
	}
}

// Start spawns the read loop over src. A second Start while running is a no-op.
func (l *Listener) Start(src ResponseSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		l.logFn("listener: already running")
		return
	}
	if in, ok := src.(Interrupter); ok {
		in.Resume()
	}
	l.running = true
	l.src = src
	l.stopChan = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(src, l.stopChan, l.done)
	l.logFn("listener: started")
}

// Stop signals the loop and waits up to the stop timeout for it to exit.
// It reports whether the loop exited in time. Safe to call repeatedly.
func (l *Listener) Stop() bool {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return true
	}
	l.running = false
	close(l.stopChan)
	if in, ok := l.src.(Interrupter); ok {
		in.Interrupt()
	}
	done := l.done
	l.mu.Unlock()

	select {
	case <-done:
		l.logFn("listener: stopped")
		return true
	case <-time.After(l.stopTimeout):
		l.logFn("listener: did not stop within %v", l.stopTimeout)
		return false
	}
}

// IsRunning reports whether the read loop is active.
func (l *Listener) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Listener) run(src ResponseSource, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		resp, err := l.read(src)
		if err == nil {
			l.sink(resp)
			continue
		}

		select {
		case <-stop:
			return
		default:
		}

		if errors.Is(err, ErrNotConnected) || isStreamClosed(err) {
			l.logFn("listener: stream closed: %v", err)
			l.mu.Lock()
			l.running = false
			l.mu.Unlock()
			if l.OnStreamClosed != nil {
				l.OnStreamClosed(err)
			}
			return
		}

		l.logFn("listener: read response: %v (retrying in %v)", err, l.retryDelay)
		select {
		case <-stop:
			return
		case <-time.After(l.retryDelay):
		}
	}
}

// read shields the loop from panics in the source.
func (l *Listener) read(src ResponseSource) (resp *Responses, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logFn("listener: recovered from panic: %v", r)
			resp, err = nil, &ProtocolError{Err: errors.New("panic while reading")}
		}
	}()
	return src.ReadResponses()
}
