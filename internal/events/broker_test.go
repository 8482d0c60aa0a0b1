package events

import "testing"

func TestBrokerFanOut(t *testing.T) {
	broker := NewBroker()
	first := broker.Subscribe()
	second := broker.Subscribe()

	broker.Publish(Event{Creator: "creator", Stage: StageScraping})

	for name, ch := range map[string]chan Event{"first": first, "second": second} {
		select {
		case evt := <-ch:
			if evt.Stage != StageScraping {
				t.Errorf("%s subscriber got stage %q", name, evt.Stage)
			}
		default:
			t.Errorf("%s subscriber received no event", name)
		}
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	broker := NewBroker()
	ch := broker.Subscribe()

	for i := 0; i < 20; i++ {
		broker.Publish(Event{Creator: "creator", Stage: StageDownloading})
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("expected buffer to be full at %d, got %d", cap(ch), got)
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	broker := NewBroker()
	ch := broker.Subscribe()
	broker.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	broker.Publish(Event{Creator: "creator", Stage: StageCompleted})
}
