package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do(context.Background(), "division:metro:div-a", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_WaiterHonoursContext(t *testing.T) {
	var g SingleFlight
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _ = g.Do(context.Background(), "slow", func() (any, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err, shared := g.Do(ctx, "slow", func() (any, error) {
		t.Errorf("waiter must not start its own load")
		return nil, nil
	})
	close(release)

	if !shared {
		t.Fatalf("expected waiter to join the in-flight call")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSingleFlight_ForgetStartsFreshLoad(t *testing.T) {
	var g SingleFlight
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _, _ = g.Do(context.Background(), "k", func() (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()
	<-started

	g.Forget("k")
	v, err, shared := g.Do(context.Background(), "k", func() (any, error) {
		return "fresh", nil
	})
	close(release)
	<-done

	if err != nil || shared || v != "fresh" {
		t.Fatalf("expected fresh unshared load, got v=%v err=%v shared=%v", v, err, shared)
	}
}
