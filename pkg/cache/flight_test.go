package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestFlightSharesConcurrentCalls(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var f Flight[int]
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	// The first caller holds the flight open until every other caller has
	// joined it.
	go func() {
		f.Do("module", func() (int, error) {
			calls.Add(1)
			close(started)
			<-release
			return 42, nil
		})
	}()
	<-started

	const callers = 16
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, shared, err := f.Do("module", func() (int, error) {
				calls.Add(1)
				return 0, nil
			})
			if err != nil || !shared {
				t.Errorf("Do = %d, shared %v, err %v", v, shared, err)
			}
			results[i] = v
		}(i)
	}
	if got := f.InFlight(); got != 1 {
		t.Errorf("InFlight() = %d, want 1", got)
	}
	// Let the callers reach the flight before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("fn called %d times, want 1", got)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("caller %d got %d, want 42", i, v)
		}
	}
	if got := f.InFlight(); got != 0 {
		t.Errorf("InFlight() after completion = %d, want 0", got)
	}
}

func TestFlightKeepsNothing(t *testing.T) {
	var f Flight[int]
	n := 0
	fn := func() (int, error) { n++; return n, nil }

	f.Do("k", fn)
	v, shared, err := f.Do("k", fn)
	if err != nil || shared || v != 2 {
		t.Errorf("second Do = %d, shared %v, err %v; want a fresh computation", v, shared, err)
	}
	if got := f.InFlight(); got != 0 {
		t.Errorf("InFlight() = %d, want 0", got)
	}
}

func TestFlightReturnsErrors(t *testing.T) {
	var f Flight[string]
	boom := errors.New("boom")

	if _, _, err := f.Do("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("Do error = %v, want boom", err)
	}
	v, _, err := f.Do("k", func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("retry after error = %q, %v", v, err)
	}
}
