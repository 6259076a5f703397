package game

import (
	"errors"
	"testing"
	"time"
)

func TestNewDeckRejectsNegativeID(t *testing.T) {
	t.Parallel()

	if _, err := NewDeck(-1); err == nil {
		t.Fatal("NewDeck(-1) succeeded, want error")
	}
}

func TestDeckFIFOOrder(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		d.Push(NewCard(i))
	}
	for i := 1; i <= 5; i++ {
		c, err := d.Pop()
		if err != nil {
			t.Fatalf("Pop() error = %v", err)
		}
		if c.Rank() != i {
			t.Errorf("Pop() = %d, want %d", c.Rank(), i)
		}
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", d.Len())
	}
}

func TestDeckPopBlocksUntilPush(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan Card, 1)
	go func() {
		c, err := d.Pop()
		if err != nil {
			return
		}
		got <- c
	}()

	select {
	case c := <-got:
		t.Fatalf("Pop() returned %v from an empty deck", c)
	case <-time.After(20 * time.Millisecond):
	}

	d.Push(NewCard(9))

	select {
	case c := <-got:
		if c.Rank() != 9 {
			t.Errorf("Pop() = %d, want 9", c.Rank())
		}
	case <-time.After(time.Second):
		t.Fatal("Pop() still blocked after Push")
	}
}

func TestDeckInterruptWakesBlockedPop(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := d.Pop()
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	d.Interrupt()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrDeckInterrupted) {
			t.Errorf("Pop() error = %v, want ErrDeckInterrupted", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop() still blocked after Interrupt")
	}
}

func TestDeckDrainsAfterInterrupt(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}
	d.Push(NewCard(1))
	d.Push(NewCard(2))
	d.Interrupt()

	for want := 1; want <= 2; want++ {
		c, err := d.Pop()
		if err != nil {
			t.Fatalf("Pop() error = %v, want queued card %d", err, want)
		}
		if c.Rank() != want {
			t.Errorf("Pop() = %d, want %d", c.Rank(), want)
		}
	}

	if _, err := d.Pop(); !errors.Is(err, ErrDeckInterrupted) {
		t.Errorf("Pop() on drained interrupted deck = %v, want ErrDeckInterrupted", err)
	}
	if !d.Interrupted() {
		t.Error("Interrupted() = false after Interrupt")
	}
}

func TestDeckSnapshotIsIndependent(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}
	d.Push(NewCard(1))
	d.Push(NewCard(2))

	snap := d.Snapshot()
	if _, err := d.Pop(); err != nil {
		t.Fatal(err)
	}

	if len(snap) != 2 || snap[0].Rank() != 1 || snap[1].Rank() != 2 {
		t.Errorf("Snapshot() = %v, want [1 2]", snap)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d after Pop, want 1", d.Len())
	}
}

func TestDeckConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	d, err := NewDeck(1)
	if err != nil {
		t.Fatal(err)
	}

	const cards = 200
	go func() {
		for i := 0; i < cards; i++ {
			d.Push(NewCard(i))
		}
	}()

	for i := 0; i < cards; i++ {
		c, err := d.Pop()
		if err != nil {
			t.Fatalf("Pop() error = %v at card %d", err, i)
		}
		if c.Rank() != i {
			t.Fatalf("Pop() = %d, want %d; FIFO order broken", c.Rank(), i)
		}
	}
}
