package channel

import "testing"

func TestBuffered_SendReceive(t *testing.T) {
	c := New[int](2)
	c.Send(1)
	c.Send(2)

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	if got := <-c.Receive(); got != 1 {
		t.Errorf("received %d, want 1", got)
	}
	if got := <-c.Receive(); got != 2 {
		t.Errorf("received %d, want 2", got)
	}
}

func TestBuffered_TrySend(t *testing.T) {
	c := New[string](1)

	if !c.TrySend("a") {
		t.Error("TrySend should succeed with room in buffer")
	}
	if c.TrySend("b") {
		t.Error("TrySend should fail when buffer is full")
	}

	if got := <-c.Receive(); got != "a" {
		t.Errorf("received %q, want %q", got, "a")
	}
}

func TestBuffered_CloseDrains(t *testing.T) {
	c := New[int](1)
	c.Send(7)
	c.Close()

	if got := <-c.Receive(); got != 7 {
		t.Errorf("received %d, want 7", got)
	}
	if _, ok := <-c.Receive(); ok {
		t.Error("closed channel should report !ok after drain")
	}
}
