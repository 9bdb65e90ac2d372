// Package segments implements the queue of unsent output byte ranges. The queue never
// copies: it references memory owned by somebody else (usually a response), which must
// stay unchanged until the queue is drained.
package segments

import "github.com/indigo-web/utils/uf"

type Queue struct {
	segs [][]byte
	head int
	size int
}

func New(prealloc int) *Queue {
	return &Queue{
		segs: make([][]byte, 0, prealloc),
	}
}

// Push appends a segment to the back of the queue. Empty segments are ignored.
func (q *Queue) Push(b []byte) {
	if len(b) == 0 {
		return
	}

	q.segs = append(q.segs, b)
	q.size += len(b)
}

// PushString appends the string's memory without copying it.
func (q *Queue) PushString(s string) {
	q.Push(uf.S2B(s))
}

// Front returns the first unsent segment or nil if the queue is empty.
func (q *Queue) Front() []byte {
	if q.Empty() {
		return nil
	}

	return q.segs[q.head]
}

// Pop removes the front segment.
func (q *Queue) Pop() {
	if q.Empty() {
		return
	}

	q.size -= len(q.segs[q.head])
	q.segs[q.head] = nil
	q.head++

	if q.head == len(q.segs) {
		// reuse the backing array once everything was sent
		q.segs = q.segs[:0]
		q.head = 0
	}
}

// Consume marks n bytes as sent: fully covered segments are dropped from the front and
// the front segment is trimmed in place by the remainder. Consuming more than Len bytes
// simply drains the queue.
func (q *Queue) Consume(n int) {
	for n > 0 && !q.Empty() {
		front := q.segs[q.head]
		if n < len(front) {
			q.segs[q.head] = front[n:]
			q.size -= n
			return
		}

		n -= len(front)
		q.Pop()
	}
}

// Pending returns unsent segments in order. The returned slice is valid until the next
// mutation of the queue.
func (q *Queue) Pending() [][]byte {
	return q.segs[q.head:]
}

// Len returns the total number of unsent bytes.
func (q *Queue) Len() int {
	return q.size
}

// Segments returns the number of unsent segments.
func (q *Queue) Segments() int {
	return len(q.segs) - q.head
}

func (q *Queue) Empty() bool {
	return q.head == len(q.segs)
}

// Clear drops everything without sending.
func (q *Queue) Clear() {
	clear(q.segs)
	q.segs = q.segs[:0]
	q.head = 0
	q.size = 0
}
