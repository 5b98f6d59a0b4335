// File: spsc/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package spsc implements the unbounded single-producer/single-consumer
// message queue that carries discrete payloads from the control thread into
// the real-time callback.
//
// The queue is a singly linked list threaded through two atomic pointers: a
// tail advanced only by the producer and an emission cursor advanced only by
// the consumer. One sentinel node keeps the list non-empty at all times, so
// the consumer's termination check is simply "no published successor".
// Retired nodes are recycled on the producer side, never on the real-time
// side; the consumer's whole cycle is a pointer chase with zero allocations.
//
// Memory ordering relies on the publish edge: a node becomes visible to the
// consumer exactly when its predecessor's next pointer is stored, which
// happens after the payload is fully written. The consumer publishes its
// progress back through the cursor, and the producer's reclaim pass frees
// only nodes strictly behind an acquired cursor value.
package spsc
