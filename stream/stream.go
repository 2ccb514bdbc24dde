// Package stream is a small in-process publish/subscribe hub for decoded
// sensor output. Topics are plain strings (sensor IDs); each topic retains
// its latest value and replays it to new subscribers, so a consumer that
// attaches mid-run sees the current state immediately. Publishing never
// blocks: a full subscriber queue drops its oldest entry.
package stream

import "sync"

// Hub fans values of one type out to per-topic subscribers.
type Hub[T any] struct {
	mu     sync.Mutex
	topics map[string]*topic[T]
	qLen   int
}

type topic[T any] struct {
	subs     []*Subscription[T]
	retained *T
}

// Subscription is one subscriber's bounded queue on a topic.
type Subscription[T any] struct {
	topic string
	ch    chan T
	hub   *Hub[T]
}

func (s *Subscription[T]) Topic() string     { return s.topic }
func (s *Subscription[T]) Channel() <-chan T { return s.ch }

// Unsubscribe detaches the subscription and closes its channel. Calling it
// again is a no-op.
func (s *Subscription[T]) Unsubscribe() { s.hub.unsubscribe(s) }

// NewHub creates a hub whose subscriptions queue up to queueLen values.
func NewHub[T any](queueLen int) *Hub[T] {
	if queueLen <= 0 {
		queueLen = 8 // safe default
	}
	return &Hub[T]{
		topics: make(map[string]*topic[T]),
		qLen:   queueLen,
	}
}

func (h *Hub[T]) node(name string) *topic[T] {
	tp, ok := h.topics[name]
	if !ok {
		tp = &topic[T]{}
		h.topics[name] = tp
	}
	return tp
}

// Subscribe attaches a new bounded-queue subscriber to a topic. If the topic
// holds a retained value it is delivered first.
func (h *Hub[T]) Subscribe(name string) *Subscription[T] {
	sub := &Subscription[T]{
		topic: name,
		ch:    make(chan T, h.qLen),
		hub:   h,
	}

	h.mu.Lock()
	tp := h.node(name)
	tp.subs = append(tp.subs, sub)
	if tp.retained != nil {
		sub.ch <- *tp.retained // fresh queue, cannot be full
	}
	h.mu.Unlock()
	return sub
}

// Publish delivers v to every subscriber of the topic and retains it for
// future subscribers. Never blocks.
func (h *Hub[T]) Publish(name string, v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tp := h.node(name)
	r := v
	tp.retained = &r

	for _, sub := range tp.subs {
		select {
		case sub.ch <- v:
		default:
			// Queue full: drop the oldest entry. Both steps stay
			// non-blocking in case a receiver drains concurrently.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- v:
			default:
			}
		}
	}
}

// Retained returns the topic's retained value, if any.
func (h *Hub[T]) Retained(name string) (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var zero T
	tp, ok := h.topics[name]
	if !ok || tp.retained == nil {
		return zero, false
	}
	return *tp.retained, true
}

func (h *Hub[T]) unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tp, ok := h.topics[sub.topic]
	if !ok {
		return
	}
	for i, s := range tp.subs {
		if s == sub {
			tp.subs = append(tp.subs[:i], tp.subs[i+1:]...)
			close(sub.ch)
			break
		}
	}
	if len(tp.subs) == 0 && tp.retained == nil {
		delete(h.topics, sub.topic)
	}
}
