package transport

import (
	"fmt"
	"time"
)

// FakeTransport implements Transport backed by an in-memory file map.
type FakeTransport struct {
	// Files maps remote path to content.
	Files map[string][]byte

	// ModTimes maps remote path to modification time.
	ModTimes map[string]time.Time

	// Puts records every upload in order.
	Puts []string

	// FailPuts makes Put return an error for the listed paths.
	FailPuts map[string]bool

	// Closed reports whether Close was called.
	Closed bool
}

// NewFakeTransport creates an empty FakeTransport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		Files:    make(map[string][]byte),
		ModTimes: make(map[string]time.Time),
		FailPuts: make(map[string]bool),
	}
}

// Set stores content at a remote path.
func (t *FakeTransport) Set(remotePath string, data []byte) {
	t.Files[remotePath] = data
}

// Get returns stored content or ErrMissing.
func (t *FakeTransport) Get(remotePath string) ([]byte, error) {
	data, ok := t.Files[remotePath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissing, remotePath)
	}
	return append([]byte(nil), data...), nil
}

// Put stores content and records the upload.
func (t *FakeTransport) Put(remotePath string, data []byte) error {
	if t.FailPuts[remotePath] {
		return fmt.Errorf("failed to store %s: simulated failure", remotePath)
	}
	t.Files[remotePath] = append([]byte(nil), data...)
	t.Puts = append(t.Puts, remotePath)
	return nil
}

// Size returns the stored content length or ErrMissing.
func (t *FakeTransport) Size(remotePath string) (int64, error) {
	data, ok := t.Files[remotePath]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissing, remotePath)
	}
	return int64(len(data)), nil
}

// ModTime returns the configured time or the zero time.
func (t *FakeTransport) ModTime(remotePath string) time.Time {
	return t.ModTimes[remotePath]
}

// Close marks the transport closed.
func (t *FakeTransport) Close() error {
	t.Closed = true
	return nil
}

// FakeDialer implements Dialer returning a prepared FakeTransport.
type FakeDialer struct {
	Transport *FakeTransport

	// Err makes Dial fail, simulating an unreachable server.
	Err error

	// Dialed counts Dial calls.
	Dialed int
}

// Dial returns the prepared transport or the configured error.
func (d *FakeDialer) Dial(cfg *Config) (Transport, error) {
	d.Dialed++
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Transport, nil
}
