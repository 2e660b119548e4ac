// File: internal/concurrency/inbox_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync"
	"testing"
	"time"
)

func TestInbox_FIFO(t *testing.T) {
	b := newInbox()
	for i := uint64(1); i <= 3; i++ {
		if !b.push(&Task{id: i}) {
			t.Fatalf("Expected push %d to succeed", i)
		}
	}
	if b.size() != 3 {
		t.Errorf("Expected 3 queued tasks, got %d", b.size())
	}
	for want := uint64(1); want <= 3; want++ {
		task, ok := b.pop()
		if !ok || task.id != want {
			t.Errorf("Expected task %d, got %+v ok=%v", want, task, ok)
		}
	}
}

func TestInbox_PopBlocksUntilPush(t *testing.T) {
	b := newInbox()
	got := make(chan uint64, 1)
	go func() {
		task, ok := b.pop()
		if ok {
			got <- task.id
		}
	}()
	select {
	case <-got:
		t.Fatal("Expected pop to block on empty inbox")
	case <-time.After(20 * time.Millisecond):
	}
	b.push(&Task{id: 42})
	select {
	case id := <-got:
		if id != 42 {
			t.Errorf("Expected task 42, got %d", id)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected pop to wake after push")
	}
}

func TestInbox_CloseDrainsAndWakes(t *testing.T) {
	b := newInbox()
	b.push(&Task{id: 1})
	b.push(&Task{id: 2})

	rest := b.close()
	if len(rest) != 2 {
		t.Errorf("Expected 2 drained tasks, got %d", len(rest))
	}
	if b.push(&Task{id: 3}) {
		t.Errorf("Expected push after close to fail")
	}
	if again := b.close(); again != nil {
		t.Errorf("Expected second close to return nil, got %d tasks", len(again))
	}

	b2 := newInbox()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, ok := b2.pop(); ok {
			t.Errorf("Expected pop on closed inbox to report false")
		}
	}()
	time.Sleep(10 * time.Millisecond)
	b2.close()
	wg.Wait()
}
