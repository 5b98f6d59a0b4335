// File: spsc/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package spsc

import (
	"sync/atomic"

	fifo "github.com/eapache/queue"
)

const (
	// minPayloadCap is the initial payload capacity of freshly allocated
	// nodes. Typical MIDI messages are 1-3 bytes; SysEx dumps grow the
	// slice in place and keep the larger capacity across reuses.
	minPayloadCap = 64

	// maxFreeNodes bounds the recycled-node pool. Nodes retired beyond
	// this watermark are dropped and collected normally, so a one-off
	// burst does not pin its high-water memory forever.
	maxFreeNodes = 256
)

// node is one queue link. The next pointer doubles as the publish point:
// storing it makes the node, payload included, visible to the consumer.
type node struct {
	next atomic.Pointer[node]
	data []byte
}

// Queue carries byte payloads from one producer goroutine to one consumer
// goroutine. Push, Reclaim and Stats belong to the producer; Drain belongs
// to the consumer and is safe inside a real-time callback: it never blocks,
// allocates or frees.
//
// The zero Queue is not usable; construct with New.
type Queue struct {
	// Consumer-owned hot fields. The cursor trails the tail and marks
	// the last node whose payload has been emitted.
	cursor  atomic.Pointer[node]
	drained uint64
	_       [48]byte

	// Producer-owned hot fields.
	tail      atomic.Pointer[node]
	pushed    uint64
	reclaimed uint64
	reused    uint64
	_         [32]byte

	// Producer-only cold state. frontier trails the cursor and marks how
	// far the reclaim pass has advanced; free holds retired nodes.
	frontier *node
	free     *fifo.Queue
}

// New returns an empty queue. The sentinel node installed here is never
// emitted and never freed while it remains the cursor.
func New() *Queue {
	q := &Queue{free: fifo.New()}
	s := &node{}
	q.cursor.Store(s)
	q.tail.Store(s)
	q.frontier = s
	return q
}

// Push appends a copy of msg to the queue. Producer side only.
//
// Each call first runs a reclaim pass, so steady traffic keeps the node
// population bounded without any work on the consumer side. An empty msg is
// a valid payload and is delivered as an empty slice.
func (q *Queue) Push(msg []byte) {
	q.reclaim()
	n := q.obtain()
	n.data = append(n.data[:0], msg...)
	prev := q.tail.Swap(n)
	prev.next.Store(n)
	atomic.AddUint64(&q.pushed, 1)
}

// Drain emits every payload published since the previous call, in push
// order, and returns how many there were. Consumer side only.
//
// The payload slice passed to emit aliases node storage and is valid only
// for the duration of the call; the node may be recycled afterwards.
func (q *Queue) Drain(emit func(msg []byte)) int {
	n := q.cursor.Load()
	count := 0
	for {
		next := n.next.Load()
		if next == nil {
			break
		}
		n = next
		emit(n.data)
		count++
	}
	if count > 0 {
		q.cursor.Store(n)
		atomic.AddUint64(&q.drained, uint64(count))
	}
	return count
}

// Reclaim retires every node the consumer has moved past and returns how
// many were recycled. Producer side only. Push runs the same pass on every
// call; Reclaim exists for producers that go quiet and want to release the
// backlog without enqueuing anything.
func (q *Queue) Reclaim() int {
	return q.reclaim()
}

// reclaim walks from the frontier up to, but excluding, the current cursor.
// Every node on that stretch has been emitted and can no longer be reached
// by the consumer, whose only entry point is the cursor itself.
func (q *Queue) reclaim() int {
	end := q.cursor.Load()
	n := q.frontier
	freed := 0
	for n != end {
		next := n.next.Load()
		n.next.Store(nil)
		if q.free.Length() < maxFreeNodes {
			q.free.Add(n)
		}
		n = next
		freed++
	}
	q.frontier = end
	if freed > 0 {
		atomic.AddUint64(&q.reclaimed, uint64(freed))
	}
	return freed
}

// obtain returns a node ready for linking: recycled when the pool has one,
// freshly allocated otherwise. Recycled nodes arrive with a nil next
// pointer; reclaim cleared it before pooling.
func (q *Queue) obtain() *node {
	if q.free.Length() > 0 {
		atomic.AddUint64(&q.reused, 1)
		return q.free.Remove().(*node)
	}
	return &node{data: make([]byte, 0, minPayloadCap)}
}

// Stats reports cumulative queue counters.
func (q *Queue) Stats() map[string]uint64 {
	return map[string]uint64{
		"pushed":    atomic.LoadUint64(&q.pushed),
		"drained":   atomic.LoadUint64(&q.drained),
		"reclaimed": atomic.LoadUint64(&q.reclaimed),
		"reused":    atomic.LoadUint64(&q.reused),
	}
}
