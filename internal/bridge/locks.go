package bridge

import "sync"

// deviceLocks serializes enrollment and dispatch per device. Different
// devices proceed concurrently; two observations of the same device never
// interleave their store reads and writes.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a device, creating it on first use.
// Locks are never reclaimed; the device population is small and bounded.
func (d *deviceLocks) get(deviceID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.locks[deviceID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[deviceID] = lock
	}
	return lock
}
