package native

import (
	"encoding/binary"
	"sync"
	"syscall"
)

// MapSource is an in-memory attribute store. It backs tests and lets callers
// overlay fixed values on top of a host source.
type MapSource struct {
	mu      sync.RWMutex
	values  map[string][]byte
	failing map[string]syscall.Errno
	probes  map[string]int
	fetches map[string]int
}

// NewMapSource creates an empty store.
func NewMapSource() *MapSource {
	return &MapSource{
		values:  make(map[string][]byte),
		failing: make(map[string]syscall.Errno),
		probes:  make(map[string]int),
		fetches: make(map[string]int),
	}
}

// Set stores raw bytes under name.
func (m *MapSource) Set(name string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = append([]byte(nil), value...)
}

// SetInt32 stores a host byte order 32-bit integer.
func (m *MapSource) SetInt32(name string, value int32) {
	buf := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf, uint32(value))
	m.Set(name, buf)
}

// SetInt64 stores a host byte order 64-bit integer.
func (m *MapSource) SetInt64(name string, value int64) {
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, uint64(value))
	m.Set(name, buf)
}

// SetString stores a NUL-terminated string, the way sysctl reports them.
func (m *MapSource) SetString(name, value string) {
	m.Set(name, append([]byte(value), 0))
}

// Delete removes name from the store.
func (m *MapSource) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
}

// Fail makes every read of name return errno until Recover is called.
func (m *MapSource) Fail(name string, errno syscall.Errno) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[name] = errno
}

// Recover clears a failure set with Fail.
func (m *MapSource) Recover(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failing, name)
}

// Probes reports how many size probes name has received.
func (m *MapSource) Probes(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.probes[name]
}

// Fetches reports how many buffer fetches name has received.
func (m *MapSource) Fetches(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetches[name]
}

// Read implements Source.
func (m *MapSource) Read(name string, buf []byte, size *int) error {
	m.mu.Lock()
	if buf == nil {
		m.probes[name]++
	} else {
		m.fetches[name]++
	}
	errno, failing := m.failing[name]
	value, ok := m.values[name]
	m.mu.Unlock()

	if failing {
		return errno
	}
	if !ok {
		return syscall.ENOENT
	}
	return copyValue(value, buf, size)
}
