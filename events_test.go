package svckit

import (
	"testing"
	"time"
)

func TestChannel_SendDropsWhenFull(t *testing.T) {
	ch := NewChannel[struct{}](2)

	if !ch.Send(Event[struct{}]{Kind: EventPause}) {
		t.Fatal("first send should be accepted")
	}
	if !ch.Send(Event[struct{}]{Kind: EventContinue}) {
		t.Fatal("second send should be accepted")
	}
	if ch.Send(Event[struct{}]{Kind: EventStop}) {
		t.Error("send into a full channel should be dropped")
	}

	// The buffered events survive the drop untouched.
	ev := <-ch.Events()
	if ev.Kind != EventPause {
		t.Errorf("expected Pause first, got %s", ev.Kind)
	}
	ev = <-ch.Events()
	if ev.Kind != EventContinue {
		t.Errorf("expected Continue second, got %s", ev.Kind)
	}
}

func TestChannel_SendWaitDeliversWhenDrained(t *testing.T) {
	ch := NewChannel[struct{}](1)
	ch.Send(Event[struct{}]{Kind: EventPause})

	go func() {
		time.Sleep(20 * time.Millisecond)
		<-ch.Events()
	}()

	if !ch.SendWait(Event[struct{}]{Kind: EventStop}, time.Second) {
		t.Fatal("SendWait should succeed once the consumer drains")
	}
	ev := <-ch.Events()
	if ev.Kind != EventStop {
		t.Errorf("expected Stop, got %s", ev.Kind)
	}
}

func TestChannel_SendWaitTimesOut(t *testing.T) {
	ch := NewChannel[struct{}](1)
	ch.Send(Event[struct{}]{Kind: EventPause})

	start := time.Now()
	if ch.SendWait(Event[struct{}]{Kind: EventStop}, 10*time.Millisecond) {
		t.Fatal("SendWait should time out when nobody drains")
	}
	if time.Since(start) > time.Second {
		t.Error("SendWait waited far past its bound")
	}
}

func TestNewChannel_NonPositiveSizeUsesDefault(t *testing.T) {
	ch := NewChannel[int](0)
	if cap(ch.c) != defaultEventBuffer {
		t.Errorf("expected default buffer %d, got %d", defaultEventBuffer, cap(ch.c))
	}
	ch = NewChannel[int](-3)
	if cap(ch.c) != defaultEventBuffer {
		t.Errorf("expected default buffer %d, got %d", defaultEventBuffer, cap(ch.c))
	}
}

func TestCustom_BuildsCustomEvent(t *testing.T) {
	ev := Custom("reload")
	if ev.Kind != EventCustom {
		t.Errorf("expected Custom kind, got %s", ev.Kind)
	}
	if ev.Custom != "reload" {
		t.Errorf("expected payload to survive, got %q", ev.Custom)
	}
}
