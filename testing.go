package mtpd

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/kaliedoscape/mtpd/internal/interfaces"
)

// MockBulkTransport is an in-memory stand-in for a USB bulk pipe pair,
// useful for exercising a Responder without real device hardware. Queue
// raw packets for the responder to Receive with Enqueue; inspect what it
// Sent with Sent.
type MockBulkTransport struct {
	mu      sync.Mutex
	inbound [][]byte
	sent    [][]byte
}

// NewMockBulkTransport returns an empty MockBulkTransport.
func NewMockBulkTransport() *MockBulkTransport {
	return &MockBulkTransport{}
}

// Enqueue appends a raw packet to be returned by the next Receive call.
func (m *MockBulkTransport) Enqueue(packet []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(packet))
	copy(cp, packet)
	m.inbound = append(m.inbound, cp)
}

// Receive implements interfaces.BulkTransport.
func (m *MockBulkTransport) Receive(buf []byte, maxLen int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inbound) == 0 {
		return 0, io.EOF
	}
	pkt := m.inbound[0]
	m.inbound = m.inbound[1:]
	return copy(buf, pkt), nil
}

// Send implements interfaces.BulkTransport.
func (m *MockBulkTransport) Send(buf []byte, length int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, length)
	copy(cp, buf[:length])
	m.sent = append(m.sent, cp)
	return nil
}

// Sent returns every packet handed to Send so far, in order.
func (m *MockBulkTransport) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	copy(out, m.sent)
	return out
}

// mockReadStream adapts a bytes.Reader to interfaces.ReadStream.
type mockReadStream struct {
	*bytes.Reader
	closed bool
}

func (s *mockReadStream) Close() error {
	s.closed = true
	return nil
}

// MockVolumeProvider is an in-memory VolumeProvider for tests: directories,
// file contents, sizes, and timestamps are all populated by the caller
// rather than read off a real filesystem.
type MockVolumeProvider struct {
	mu sync.Mutex

	dirs   map[string][]string
	isDir  map[string]bool
	sizes  map[string]uint64
	ctimes map[string]time.Time
	mtimes map[string]time.Time
	files  map[string][]byte

	TotalBytes uint64
	FreeBytes  uint64

	StatErr error
	OpenErr error
	ListErr error
}

// NewMockVolumeProvider returns an empty MockVolumeProvider.
func NewMockVolumeProvider() *MockVolumeProvider {
	return &MockVolumeProvider{
		dirs:   make(map[string][]string),
		isDir:  make(map[string]bool),
		sizes:  make(map[string]uint64),
		ctimes: make(map[string]time.Time),
		mtimes: make(map[string]time.Time),
		files:  make(map[string][]byte),
	}
}

// AddDir registers path as a directory whose children are exactly entries
// (already storage-qualified paths, e.g. "sdmc:/a.bin").
func (m *MockVolumeProvider) AddDir(path string, entries ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDir[path] = true
	m.dirs[path] = entries
}

// AddFile registers path as a file with the given contents and
// modification/creation times.
func (m *MockVolumeProvider) AddFile(path string, contents []byte, ctime, mtime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDir[path] = false
	m.files[path] = contents
	m.sizes[path] = uint64(len(contents))
	m.ctimes[path] = ctime
	m.mtimes[path] = mtime
}

// StatVolume implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) StatVolume(prefix string) (uint64, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatErr != nil {
		return 0, 0, m.StatErr
	}
	return m.TotalBytes, m.FreeBytes, nil
}

// ListDirectory implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) ListDirectory(path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.dirs[path], nil
}

// IsDirectory implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) IsDirectory(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDir[path]
}

// FileSize implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) FileSize(path string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sizes[path]
}

// StatTimes implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) StatTimes(path string) (time.Time, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctimes[path], m.mtimes[path], nil
}

// OpenRead implements interfaces.VolumeProvider.
func (m *MockVolumeProvider) OpenRead(path string) (interfaces.ReadStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, NewPathError("OpenRead", path, ErrCodeNotFound, 0, "no such file")
	}
	return &mockReadStream{Reader: bytes.NewReader(data)}, nil
}

var (
	_ interfaces.BulkTransport  = (*MockBulkTransport)(nil)
	_ interfaces.VolumeProvider = (*MockVolumeProvider)(nil)
)
