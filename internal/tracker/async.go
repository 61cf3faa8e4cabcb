package tracker

import (
	"errors"
	"log"
	"sync"
	"time"
)

const (
	queueSize  = 256
	closeGrace = 5 * time.Second
)

// async decouples event producers from the sink write: a buffered channel
// feeds a single worker goroutine. A full queue drops the event rather than
// stalling the conversation flow.
type async struct {
	write func(Event)
	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func newAsync(write func(Event)) *async {
	a := &async{
		write: write,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *async) run() {
	for event := range a.queue {
		a.write(event)
	}
	close(a.done)
}

// Track enqueues the event without blocking.
func (a *async) Track(event Event) {
	select {
	case a.queue <- event:
	default:
		log.Printf("tracker: queue full, dropping %s event", event.Type)
	}
}

// Close stops accepting events and waits for the worker to drain, bounded by
// a grace period.
func (a *async) Close() error {
	a.once.Do(func() {
		close(a.queue)
	})
	select {
	case <-a.done:
		return nil
	case <-time.After(closeGrace):
		return errors.New("tracker: drain timed out")
	}
}
