package store

import (
	"path/filepath"
	"sync"
)

// The database file tolerates only one live connection per process.
// Gates are shared per file path so that multiple Store instances backed
// by the same file still serialize through one mutex. A gate is created
// on first use and lives for the rest of the process.
var gates = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

func gateFor(path string) *sync.Mutex {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	gates.mu.Lock()
	defer gates.mu.Unlock()

	gate, ok := gates.m[key]
	if !ok {
		gate = &sync.Mutex{}
		gates.m[key] = gate
	}
	return gate
}
