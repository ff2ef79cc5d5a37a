package queue

import (
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed is returned when operations are attempted on a closed queue.
var ErrQueueClosed = errors.New("queue is closed")

// Item is one line ready for playback.
type Item struct {
	Text    string
	Symbols string
	PCM     []byte
}

// Stats tracks queue performance metrics.
type Stats struct {
	TotalEnqueued int64
	TotalDequeued int64
	CurrentSize   int
	PeakSize      int
	CurrentBytes  int64
	PeakBytes     int64
	LastEnqueue   time.Time
	LastDequeue   time.Time
}

// AudioQueue is a bounded FIFO of rendered lines. Enqueue blocks while the
// queue is full and Dequeue blocks while it is empty. After Close, queued
// items can still be dequeued; once drained Dequeue returns ErrQueueClosed.
type AudioQueue struct {
	items   []Item
	maxSize int

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	closed bool
	stats  Stats
}

// NewAudioQueue creates a queue holding at most maxSize items.
func NewAudioQueue(maxSize int) *AudioQueue {
	if maxSize < 1 {
		maxSize = 1
	}
	q := &AudioQueue{
		items:   make([]Item, 0, maxSize),
		maxSize: maxSize,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item, waiting for space if the queue is full.
func (q *AudioQueue) Enqueue(item Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Apply backpressure - wait for space
	for len(q.items) >= q.maxSize && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, item)

	q.stats.TotalEnqueued++
	q.stats.LastEnqueue = time.Now()
	q.stats.CurrentSize = len(q.items)
	q.stats.CurrentBytes += int64(len(item.PCM))
	if q.stats.CurrentSize > q.stats.PeakSize {
		q.stats.PeakSize = q.stats.CurrentSize
	}
	if q.stats.CurrentBytes > q.stats.PeakBytes {
		q.stats.PeakBytes = q.stats.CurrentBytes
	}

	q.notEmpty.Signal()
	return nil
}

// Dequeue removes and returns the oldest item, waiting if the queue is empty.
func (q *AudioQueue) Dequeue() (Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return Item{}, ErrQueueClosed
	}

	item := q.items[0]
	q.items[0] = Item{}
	q.items = q.items[1:]

	q.stats.TotalDequeued++
	q.stats.LastDequeue = time.Now()
	q.stats.CurrentSize = len(q.items)
	q.stats.CurrentBytes -= int64(len(item.PCM))

	q.notFull.Signal()
	return item, nil
}

// Size returns the number of queued items.
func (q *AudioQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// GetStats returns current queue statistics.
func (q *AudioQueue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Close stops new items from being added and wakes all waiters.
func (q *AudioQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	// Wake up any waiting goroutines
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	return nil
}
