package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Run("default worker count", func(t *testing.T) {
		p, err := New()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer p.Shutdown()

		if p.Size() <= 0 {
			t.Errorf("expected positive size, got %d", p.Size())
		}
	})

	t.Run("explicit worker count", func(t *testing.T) {
		p, err := New(WithWorkers(3))
		if err != nil {
			t.Fatal(err)
		}
		defer p.Shutdown()

		if p.Size() != 3 {
			t.Errorf("expected size 3, got %d", p.Size())
		}
	})

	t.Run("invalid worker count", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			p, err := New(WithWorkers(n))
			if !errors.Is(err, ErrInvalidWorkerCount) {
				t.Errorf("WithWorkers(%d): expected ErrInvalidWorkerCount, got %v", n, err)
			}
			if p != nil {
				t.Errorf("WithWorkers(%d): expected nil pool", n)
			}
		}
	})
}

func TestNew_WorkerStartFailure(t *testing.T) {
	const workers, failing = 4, 2
	errPin := errors.New("pin refused")

	var running, pinned atomic.Int32
	pin := func(id int) (func(), error) {
		if id == failing {
			return nil, errPin
		}
		pinned.Add(1)
		running.Add(1)
		return func() { running.Add(-1) }, nil
	}

	p, err := New(WithWorkers(workers), WithPinnedWorkers(true), withPin(pin))
	if !errors.Is(err, errPin) {
		t.Fatalf("expected start error wrapping errPin, got %v", err)
	}
	if p != nil {
		t.Error("expected nil pool when a worker fails to start")
	}
	if got := pinned.Load(); got != workers-1 {
		t.Errorf("expected %d workers to start, got %d", workers-1, got)
	}
	// New joins the started workers before returning, so each has run its
	// cleanup by now.
	if got := running.Load(); got != 0 {
		t.Errorf("expected no workers left running, got %d", got)
	}
}

func TestThreadPool_Shutdown(t *testing.T) {
	t.Run("enqueue after shutdown fails", func(t *testing.T) {
		runPoolTest(t, 2, func(t *testing.T, p *ThreadPool) {
			p.Shutdown()

			var ran atomic.Bool
			f, err := p.Enqueue(func(ctx context.Context) error {
				ran.Store(true)
				return nil
			})
			if !errors.Is(err, ErrPoolStopped) {
				t.Errorf("expected ErrPoolStopped, got %v", err)
			}
			if f != nil {
				t.Error("expected nil future after shutdown")
			}
			if ran.Load() {
				t.Error("task ran after shutdown")
			}
		})
	})

	t.Run("drains queued tasks", func(t *testing.T) {
		p, err := New(WithWorkers(1))
		if err != nil {
			t.Fatal(err)
		}

		release := make(chan struct{})
		var done atomic.Int32
		if _, err := p.Enqueue(func(ctx context.Context) error {
			<-release
			done.Add(1)
			return nil
		}); err != nil {
			t.Fatal(err)
		}

		futures := make([]*Future[struct{}], 0, 10)
		for range 10 {
			f, err := p.Enqueue(func(ctx context.Context) error {
				done.Add(1)
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
			futures = append(futures, f)
		}

		go func() {
			time.Sleep(20 * time.Millisecond)
			close(release)
		}()
		p.Shutdown()

		if got := done.Load(); got != 11 {
			t.Errorf("expected 11 tasks to run before shutdown returned, got %d", got)
		}
		for _, f := range futures {
			if !f.IsReady() {
				t.Fatal("queued future left unresolved after shutdown")
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		p, err := New(WithWorkers(2))
		if err != nil {
			t.Fatal(err)
		}

		p.Shutdown()
		finished := make(chan struct{})
		go func() {
			p.Shutdown()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("second Shutdown blocked")
		}
	})

	t.Run("concurrent shutdown", func(t *testing.T) {
		p, err := New(WithWorkers(4))
		if err != nil {
			t.Fatal(err)
		}

		done := make(chan struct{}, 5)
		for range 5 {
			go func() {
				p.Shutdown()
				done <- struct{}{}
			}()
		}
		for range 5 {
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for concurrent Shutdown")
			}
		}
	})
}
