package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// MockSink implements Sink for tests. It records every write and never
// produces sound.
type MockSink struct {
	mu     sync.Mutex
	writes [][]byte

	// Failure injection
	WriteErr error
	FlushErr error
	CloseErr error

	// Test callbacks
	callbacks MockCallbacks

	// Metrics for testing
	flushCount atomic.Int64
	closeCount atomic.Int64
	closed     atomic.Bool
}

// MockCallbacks provides hooks for testing.
type MockCallbacks struct {
	OnWrite func(p []byte)
	OnFlush func()
	OnClose func()
}

// NewMockSink creates a mock sink with optional callbacks.
func NewMockSink(callbacks MockCallbacks) *MockSink {
	return &MockSink{callbacks: callbacks}
}

// Opener returns an Opener that always yields m.
func (m *MockSink) Opener() Opener {
	return func(context.Context, PCMFormat) (Sink, error) {
		return m, nil
	}
}

// FailingOpener returns an Opener that always fails with err.
func FailingOpener(err error) Opener {
	if err == nil {
		err = errors.New("simulated open error")
	}
	return func(context.Context, PCMFormat) (Sink, error) {
		return nil, err
	}
}

func (m *MockSink) Write(p []byte) (int, error) {
	if m.closed.Load() {
		return 0, ErrSinkClosed
	}
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}

	m.mu.Lock()
	m.writes = append(m.writes, append([]byte(nil), p...))
	m.mu.Unlock()

	if m.callbacks.OnWrite != nil {
		m.callbacks.OnWrite(p)
	}
	return len(p), nil
}

func (m *MockSink) Flush() error {
	if m.closed.Load() {
		return ErrSinkClosed
	}
	if m.FlushErr != nil {
		return m.FlushErr
	}
	m.flushCount.Add(1)
	if m.callbacks.OnFlush != nil {
		m.callbacks.OnFlush()
	}
	return nil
}

func (m *MockSink) Close() error {
	m.closeCount.Add(1)
	m.closed.Store(true)
	if m.callbacks.OnClose != nil {
		m.callbacks.OnClose()
	}
	return m.CloseErr
}

// Writes returns a copy of every payload written so far.
func (m *MockSink) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// Bytes returns all written data concatenated.
func (m *MockSink) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []byte
	for _, w := range m.writes {
		out = append(out, w...)
	}
	return out
}

// WriteCount returns the number of Write calls that succeeded.
func (m *MockSink) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// FlushCount returns the number of successful Flush calls.
func (m *MockSink) FlushCount() int64 { return m.flushCount.Load() }

// CloseCount returns the number of Close calls.
func (m *MockSink) CloseCount() int64 { return m.closeCount.Load() }

// IsClosed reports whether Close has been called.
func (m *MockSink) IsClosed() bool { return m.closed.Load() }
