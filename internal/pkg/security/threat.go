package security

import (
	"sync"
	"time"

	"github.com/sigescol/backend/internal/pkg/logger"
)

// ThreatDetector tracks suspicious activity per client address and blocks
// addresses that cross the configured threshold. State is process-local and
// lost on restart; the store is injected where needed so its lifetime is
// explicit.
type ThreatDetector struct {
	mu         sync.Mutex
	suspicious map[string]map[string]int
	blocked    map[string]time.Time
	threshold  int
	blockTTL   time.Duration
	now        func() time.Time
}

// NewThreatDetector creates a detector. threshold is the number of suspicious
// events of one type before an address is blocked; blockTTL is how long a
// block lasts.
func NewThreatDetector(threshold int, blockTTL time.Duration) *ThreatDetector {
	if threshold <= 0 {
		threshold = 10
	}
	return &ThreatDetector{
		suspicious: make(map[string]map[string]int),
		blocked:    make(map[string]time.Time),
		threshold:  threshold,
		blockTTL:   blockTTL,
		now:        time.Now,
	}
}

// IsBlocked reports whether the address is currently blocked. Expired blocks
// are cleared on read.
func (d *ThreatDetector) IsBlocked(addr string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isBlockedLocked(addr)
}

func (d *ThreatDetector) isBlockedLocked(addr string) bool {
	until, ok := d.blocked[addr]
	if !ok {
		return false
	}
	if d.now().After(until) {
		delete(d.blocked, addr)
		delete(d.suspicious, addr)
		return false
	}
	return true
}

// Report records a suspicious event for the address and returns true if the
// address is (now) blocked.
func (d *ThreatDetector) Report(addr, activity string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isBlockedLocked(addr) {
		return true
	}

	counts, ok := d.suspicious[addr]
	if !ok {
		counts = make(map[string]int)
		d.suspicious[addr] = counts
	}
	counts[activity]++

	if counts[activity] > d.threshold {
		d.blocked[addr] = d.now().Add(d.blockTTL)
		logger.Warn().Str("addr", addr).Str("activity", activity).Msg("Address blocked for suspicious activity")
		return true
	}

	return false
}

// Reset clears the counters for an address, e.g. after a successful login.
func (d *ThreatDetector) Reset(addr string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.suspicious, addr)
}
