// Package table provides the shared key-value telemetry channel the
// simulation core reads poses from and publishes detections to. The
// transport is opaque to the core: it only sees typed getters with
// defaults and a best-effort Flush.
package table

import "sync"

// Store is the read/write contract the simulation depends on. Getters never
// block and never fail: a missing key yields the caller's default. Puts are
// staged locally and pushed by Flush; a dropped Flush is recovered by the
// next tick's publish, so implementations do not retry.
type Store interface {
	GetNumber(key string, def float64) float64
	Lookup(key string) (float64, bool)
	GetBoolean(key string, def bool) bool
	PutNumber(key string, value float64)
	PutBoolean(key string, value bool)
	Flush() error
}

// MemTable is an in-process Store. It backs tests and single-process
// wiring where no broker is involved; Flush just promotes staged writes.
type MemTable struct {
	mu      sync.RWMutex
	numbers map[string]float64
	bools   map[string]bool

	pendingNumbers map[string]float64
	pendingBools   map[string]bool
	flushes        int
}

func NewMemTable() *MemTable {
	return &MemTable{
		numbers:        make(map[string]float64),
		bools:          make(map[string]bool),
		pendingNumbers: make(map[string]float64),
		pendingBools:   make(map[string]bool),
	}
}

func (t *MemTable) GetNumber(key string, def float64) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.numbers[key]; ok {
		return v
	}
	return def
}

func (t *MemTable) Lookup(key string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.numbers[key]
	return v, ok
}

func (t *MemTable) GetBoolean(key string, def bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if v, ok := t.bools[key]; ok {
		return v
	}
	return def
}

func (t *MemTable) PutNumber(key string, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingNumbers[key] = value
}

func (t *MemTable) PutBoolean(key string, value bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingBools[key] = value
}

func (t *MemTable) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range t.pendingNumbers {
		t.numbers[k] = v
		delete(t.pendingNumbers, k)
	}
	for k, v := range t.pendingBools {
		t.bools[k] = v
		delete(t.pendingBools, k)
	}
	t.flushes++
	return nil
}

// SetNumber writes a value directly, bypassing staging. Used by telemetry
// producers and tests to simulate the external side of the table.
func (t *MemTable) SetNumber(key string, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.numbers[key] = value
}

// Delete removes a key so subsequent reads fall back to defaults.
func (t *MemTable) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.numbers, key)
	delete(t.bools, key)
}

// Flushes reports how many times Flush completed.
func (t *MemTable) Flushes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.flushes
}
