package security

import (
	"testing"
	"time"
)

func TestThreatDetectorBlocksAfterThreshold(t *testing.T) {
	d := NewThreatDetector(3, time.Minute)

	for i := 0; i < 3; i++ {
		if d.Report("10.0.0.1", "rate_limit") {
			t.Fatalf("blocked after %d reports, threshold is 3", i+1)
		}
	}

	if !d.Report("10.0.0.1", "rate_limit") {
		t.Fatal("not blocked after exceeding threshold")
	}
	if !d.IsBlocked("10.0.0.1") {
		t.Error("IsBlocked = false for blocked address")
	}
	if d.IsBlocked("10.0.0.2") {
		t.Error("unrelated address reported as blocked")
	}
}

func TestThreatDetectorCountsPerActivity(t *testing.T) {
	d := NewThreatDetector(3, time.Minute)

	d.Report("10.0.0.1", "rate_limit")
	d.Report("10.0.0.1", "rate_limit")
	d.Report("10.0.0.1", "malicious_input")

	if d.IsBlocked("10.0.0.1") {
		t.Error("blocked although no single activity crossed the threshold")
	}
}

func TestThreatDetectorBlockExpires(t *testing.T) {
	d := NewThreatDetector(1, time.Minute)
	current := time.Now()
	d.now = func() time.Time { return current }

	d.Report("10.0.0.1", "rate_limit")
	d.Report("10.0.0.1", "rate_limit")
	if !d.IsBlocked("10.0.0.1") {
		t.Fatal("address not blocked")
	}

	current = current.Add(2 * time.Minute)
	if d.IsBlocked("10.0.0.1") {
		t.Error("block did not expire")
	}

	// Counters are reset with the expired block
	if d.Report("10.0.0.1", "rate_limit") {
		t.Error("blocked immediately after expiry, counters were not cleared")
	}
}

func TestThreatDetectorReset(t *testing.T) {
	d := NewThreatDetector(2, time.Minute)

	d.Report("10.0.0.1", "failed_login")
	d.Report("10.0.0.1", "failed_login")
	d.Reset("10.0.0.1")

	d.Report("10.0.0.1", "failed_login")
	if d.IsBlocked("10.0.0.1") {
		t.Error("blocked after reset, counters survived")
	}
}
