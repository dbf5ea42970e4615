package model

import "sync/atomic"

var lastID atomic.Uint64

// NextID returns a process-wide unique identifier for projects, patterns and
// notes. Identifiers start at 1; 0 is never handed out.
func NextID() uint64 {
	return lastID.Add(1)
}

// ObserveID advances the generator so that ids seen in a loaded document are
// never handed out again.
func ObserveID(id uint64) {
	for {
		cur := lastID.Load()
		if id <= cur || lastID.CompareAndSwap(cur, id) {
			return
		}
	}
}
