package exec

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// reentrantMutex is a mutex that may be locked more than once by the same
// goroutine without blocking (spec §4.2/§9: "one reentrant mutex per
// (db, coll) pair... to allow nested scan-then-update sequences within a
// single command"). The standard library has no such primitive, and
// nothing in the example pack implements one either — this is a small,
// self-contained addition rather than a dependency substitute.
type reentrantMutex struct {
	mu sync.Mutex

	stateMu sync.Mutex
	owner   int64
	count   int
}

// Lock acquires the mutex. If the calling goroutine already holds it, the
// hold count is incremented instead of blocking.
func (m *reentrantMutex) Lock() {
	gid := goroutineID()

	m.stateMu.Lock()
	if m.count > 0 && m.owner == gid {
		m.count++
		m.stateMu.Unlock()
		return
	}
	m.stateMu.Unlock()

	m.mu.Lock()
	m.stateMu.Lock()
	m.owner = gid
	m.count = 1
	m.stateMu.Unlock()
}

// Unlock releases one level of the calling goroutine's hold, unlocking
// the underlying mutex once the hold count reaches zero.
func (m *reentrantMutex) Unlock() {
	m.stateMu.Lock()
	m.count--
	done := m.count == 0
	if done {
		m.owner = 0
	}
	m.stateMu.Unlock()

	if done {
		m.mu.Unlock()
	}
}

// goroutineID extracts the calling goroutine's id from its own stack
// trace header ("goroutine 123 [running]:"), the same technique used by
// every dependency-free reentrant-lock/goroutine-local-storage
// implementation in the Go ecosystem, since runtime exposes no public id.
func goroutineID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
