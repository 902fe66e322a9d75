package security

import "testing"

func TestClientLimiterBurst(t *testing.T) {
	l := NewClientLimiter(60, 5)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request allowed after burst exhausted")
	}
}

func TestClientLimiterPerClient(t *testing.T) {
	l := NewClientLimiter(60, 1)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first client denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second client shares the first client's bucket")
	}
}

func TestClientLimiterStopIsIdempotent(t *testing.T) {
	l := NewClientLimiter(60, 1)
	l.Stop()
	l.Stop()
}
