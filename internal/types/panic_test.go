package types

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRecover(t *testing.T) {
	t.Run("passes through errors", func(t *testing.T) {
		boom := errors.New("boom")
		if err := Recover(func() error { return boom }); !errors.Is(err, boom) {
			t.Errorf("expected %v, got %v", boom, err)
		}
	})

	t.Run("converts panic", func(t *testing.T) {
		err := Recover(func() error { panic("kaboom") })

		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *PanicError, got %T", err)
		}
		if pe.Value != "kaboom" {
			t.Errorf("expected panic value kaboom, got %v", pe.Value)
		}
		if !strings.Contains(err.Error(), "stack trace") {
			t.Errorf("expected stack trace in message, got %q", err.Error())
		}
	})

	t.Run("unwraps panicked errors", func(t *testing.T) {
		err := Recover(func() error { panic(context.Canceled) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled in chain, got %v", err)
		}
	})
}

func TestRecoverValue(t *testing.T) {
	v, err := RecoverValue(func() (int, error) { return 42, nil })
	if v != 42 || err != nil {
		t.Errorf("expected (42, nil), got (%v, %v)", v, err)
	}

	v, err = RecoverValue(func() (int, error) { panic("x") })
	if v != 0 || err == nil {
		t.Errorf("expected (0, panic error), got (%v, %v)", v, err)
	}
}

func TestWorkerFrom(t *testing.T) {
	ctx := context.Background()
	if _, ok := WorkerFrom(ctx); ok {
		t.Error("background context should carry no worker")
	}
	if InRegion(ctx) {
		t.Error("background context is not in a region")
	}

	ctx = WithWorker(ctx, WorkerInfo{ID: 3, Rank: 1, TeamSize: 4})
	info, ok := WorkerFrom(ctx)
	if !ok || info.ID != 3 || info.Rank != 1 || info.TeamSize != 4 {
		t.Errorf("unexpected worker info %+v (ok=%v)", info, ok)
	}
	if !InRegion(ctx) {
		t.Error("expected context to be in a region")
	}
}
