// Package queue provides a time-ordered priority queue used for both the
// visual and activation schedules. Entries with equal times pop in push
// order, kept stable by a monotonic sequence number.
package queue

import (
	"container/heap"
	"time"
)

type entry[T any] struct {
	at  time.Time
	seq uint64
	v   T
}

type entries[T any] []entry[T]

func (h entries[T]) Len() int { return len(h) }

func (h entries[T]) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].seq < h[j].seq
}

func (h entries[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entries[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type Timed[T any] struct {
	h   entries[T]
	seq uint64
}

func New[T any]() *Timed[T] {
	return &Timed[T]{}
}

func (q *Timed[T]) Len() int { return q.h.Len() }

func (q *Timed[T]) Push(at time.Time, v T) {
	heap.Push(&q.h, entry[T]{at: at, seq: q.seq, v: v})
	q.seq++
}

// NextAt reports the time of the earliest entry.
func (q *Timed[T]) NextAt() (time.Time, bool) {
	if q.h.Len() == 0 {
		return time.Time{}, false
	}
	return q.h[0].at, true
}

// PopDue removes and returns every entry scheduled at or before now.
func (q *Timed[T]) PopDue(now time.Time) []T {
	var due []T
	for q.h.Len() > 0 && !q.h[0].at.After(now) {
		e := heap.Pop(&q.h).(entry[T])
		due = append(due, e.v)
	}
	return due
}
