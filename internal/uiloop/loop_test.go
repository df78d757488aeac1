package uiloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/starford/daycal/internal/apperr"
)

func TestPost_FIFO(t *testing.T) {
	l := New(nil, 8)
	defer l.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("ran %d tasks, want 5", len(got))
	}
}

func TestDo_RunsOnLoopAndWaits(t *testing.T) {
	l := New(nil, 1)
	defer l.Close()

	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Error("Do returned before task ran")
	}
}

func TestPanicDoesNotStopLoop(t *testing.T) {
	l := New(nil, 1)
	defer l.Close()

	_ = l.Do(context.Background(), func() { panic("boom") })
	ran := false
	if err := l.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
	if !ran {
		t.Error("loop stopped after panicking task")
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	l := New(nil, 1)
	defer l.Close()

	block := make(chan struct{})
	l.Post(func() { <-block })
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Do(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestClosedLoopRejects(t *testing.T) {
	l := New(nil, 1)
	l.Close()
	l.Close()

	if l.Post(func() {}) {
		t.Error("Post after Close should return false")
	}
	if err := l.Do(context.Background(), func() {}); !errors.Is(err, apperr.ErrClosed) {
		t.Errorf("Do after Close = %v, want ErrClosed", err)
	}
}
