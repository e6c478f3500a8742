package sqlite

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// serialGate admits exactly one store operation at a time, in
// acquisition order. It is deliberately non-reentrant: the goroutine
// holding the gate is recorded, and a second acquire from that same
// goroutine returns ErrReentrant instead of deadlocking. Acquires from
// other goroutines block until the gate is free.
type serialGate struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine id of the holder, 0 when free
}

func (g *serialGate) acquire() error {
	id := goroutineID()
	if g.owner.Load() == id {
		return ErrReentrant
	}
	g.mu.Lock()
	g.owner.Store(id)
	return nil
}

func (g *serialGate) release() {
	g.owner.Store(0)
	g.mu.Unlock()
}

// goroutineID extracts the current goroutine's id from the runtime
// stack header ("goroutine 12 [running]:"). The runtime offers no
// public accessor; this is only used to detect self-deadlock, never for
// scheduling.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		if id, err := strconv.ParseInt(string(header[:i]), 10, 64); err == nil {
			return id
		}
	}
	return -1
}
