// Package notify fans world snapshots and events out to subscribers.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const sendTimeout = 200 * time.Millisecond

type subscriber[E any] struct {
	ch   chan E
	name string
}

// Multiplexer delivers every sent value to every subscriber. Subscribers
// that do not receive within sendTimeout have that value dropped; the tick
// loop must never block on a slow listener.
type Multiplexer[E any] struct {
	name string

	mu   sync.Mutex
	subs []subscriber[E]
}

// Sender is the sending half; only the multiplexer's owner holds it.
type Sender[E any] struct {
	m *Multiplexer[E]
}

func New[E any](name string) (*Sender[E], *Multiplexer[E]) {
	m := &Multiplexer[E]{name: name}
	return &Sender[E]{m: m}, m
}

func (s *Sender[E]) Send(e E) {
	go s.m.send(e)
}

func (m *Multiplexer[E]) Subscribe(name string, ch chan E) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, subscriber[E]{ch: ch, name: name})
}

func (m *Multiplexer[E]) Unsubscribe(ch chan E) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.subs, func(sub subscriber[E]) bool { return sub.ch == ch })
	if i == -1 {
		panic("already unsubscribed")
	}
	m.subs = slices.Delete(m.subs, i, i+1)
}

func (m *Multiplexer[E]) send(e E) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		select {
		case sub.ch <- e:
		case <-time.After(sendTimeout):
			zap.S().Warnw("dropped notification for slow subscriber",
				"multiplexer", m.name,
				"subscriber", sub.name)
		}
	}
}
