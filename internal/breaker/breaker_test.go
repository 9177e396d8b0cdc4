package breaker

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

var errBoom = errors.New("boom")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestOpensAfterMaxFailures(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 3, Cooldown: time.Minute}, testLogger())

	for i := 0; i < 3; i++ {
		if err := b.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: got %v, want errBoom", i, err)
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	called := false
	err := b.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("got %v, want ErrOpen", err)
	}
	if called {
		t.Error("fn must not run while open")
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 3, Cooldown: time.Minute}, testLogger())

	b.Execute(fail)
	b.Execute(fail)
	b.Execute(succeed)
	b.Execute(fail)
	b.Execute(fail)
	if b.State() != StateClosed {
		t.Errorf("state = %s, want closed", b.State())
	}
}

func TestHalfOpenProbeCloses(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 1, Cooldown: 10 * time.Millisecond}, testLogger())

	b.Execute(fail)
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	time.Sleep(20 * time.Millisecond)
	if err := b.Execute(succeed); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %s, want closed after successful probe", b.State())
	}
}

func TestHalfOpenProbeReopens(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 1, Cooldown: 10 * time.Millisecond}, testLogger())

	b.Execute(fail)
	time.Sleep(20 * time.Millisecond)
	if err := b.Execute(fail); !errors.Is(err, errBoom) {
		t.Fatalf("probe: got %v, want errBoom", err)
	}
	if b.State() != StateOpen {
		t.Errorf("state = %s, want open after failed probe", b.State())
	}

	if err := b.Execute(succeed); !errors.Is(err, ErrOpen) {
		t.Errorf("got %v, want ErrOpen during second cooldown", err)
	}
}

func TestDefaultsApplied(t *testing.T) {
	b := New(Config{Name: "test"}, testLogger())
	if b.maxFailures != 5 {
		t.Errorf("maxFailures = %d, want 5", b.maxFailures)
	}
	if b.cooldown != 30*time.Second {
		t.Errorf("cooldown = %s, want 30s", b.cooldown)
	}
}

func TestCounters(t *testing.T) {
	b := New(Config{Name: "test", MaxFailures: 2, Cooldown: time.Minute}, testLogger())

	b.Execute(succeed)
	b.Execute(fail)
	b.Execute(fail)
	b.Execute(succeed) // short-circuited

	got := b.Counters()
	want := Counters{Calls: 4, Failures: 2, ShortCircuits: 1}
	if got != want {
		t.Errorf("counters = %+v, want %+v", got, want)
	}
}
