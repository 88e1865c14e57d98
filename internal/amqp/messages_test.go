package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventMessageRoundTrip(t *testing.T) {
	msg := NewCreatedMessage(42, "Gasto", 1999)
	if msg.Op != OpCreated || msg.ID != 42 || msg.Kind != "Gasto" || msg.AmountCents != 1999 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("timestamp should be set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != msg.Op || got.ID != msg.ID || got.Kind != msg.Kind || got.AmountCents != msg.AmountCents {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp mismatch: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestDeletedMessageOmitsAmount(t *testing.T) {
	data, err := NewDeletedMessage(7).ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := LedgerEventMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != OpDeleted || got.ID != 7 || got.Kind != "" || got.AmountCents != 0 {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestLedgerEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}
