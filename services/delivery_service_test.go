package services

import (
	"testing"
	"time"
)

func TestDeliveryAdvanceForwardOnly(t *testing.T) {
	tracker := NewDeliveryTracker()

	if got := tracker.Status("m1"); got != DeliverySent {
		t.Fatalf("initial status = %q, want %q", got, DeliverySent)
	}

	if !tracker.Advance("m1", DeliveryDelivered) {
		t.Fatal("sent -> delivered should succeed")
	}
	if tracker.Advance("m1", DeliveryDelivered) {
		t.Fatal("repeated delivered ack should be dropped")
	}
	if !tracker.Advance("m1", DeliveryRead) {
		t.Fatal("delivered -> read should succeed")
	}
	if tracker.Advance("m1", DeliveryDelivered) {
		t.Fatal("read -> delivered regression should be dropped")
	}
	if got := tracker.Status("m1"); got != DeliveryRead {
		t.Fatalf("final status = %q, want %q", got, DeliveryRead)
	}
}

func TestDeliverySkipsStraightToRead(t *testing.T) {
	tracker := NewDeliveryTracker()

	// A recipient that was offline never acks delivered; the message
	// goes straight to read on fetch.
	if !tracker.Advance("m2", DeliveryRead) {
		t.Fatal("sent -> read should succeed")
	}
	if tracker.Advance("m2", DeliveryRead) {
		t.Fatal("repeated read ack should be dropped")
	}
}

func TestDeliveryRejectsUnknownStatus(t *testing.T) {
	tracker := NewDeliveryTracker()
	if tracker.Advance("m3", "bounced") {
		t.Fatal("unknown status should be rejected")
	}
}

func TestDeliveryEvictsSettledEntries(t *testing.T) {
	tracker := NewDeliveryTracker()
	tracker.Advance("m1", DeliveryRead)
	tracker.Advance("m2", DeliveryDelivered)

	// Inside the retention window nothing is dropped and the monotonic
	// check still holds.
	tracker.evict(time.Now())
	if tracker.Advance("m1", DeliveryDelivered) {
		t.Fatal("read -> delivered regression accepted inside retention window")
	}

	tracker.evict(time.Now().Add(2 * deliveryRetention))

	tracker.mu.Lock()
	remaining := len(tracker.state)
	tracker.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("%d entries left after retention window", remaining)
	}
}
