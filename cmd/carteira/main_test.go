package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"carteira/internal/amqp"
)

func TestLogLedgerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cases := []struct {
		name string
		msg  *amqp.LedgerEventMessage
		want string
	}{
		{"created", amqp.NewCreatedMessage(3, "Gasto", 4560), "op=created"},
		{"deleted", amqp.NewDeletedMessage(3), "op=deleted"},
		{"unknown op acked", &amqp.LedgerEventMessage{Op: "updated", ID: 3, Timestamp: time.Now()}, "unknown ledger event op"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			if err := logLedgerEvent(logger, tc.msg); err != nil {
				t.Fatalf("logLedgerEvent() error = %v", err)
			}
			if !strings.Contains(buf.String(), tc.want) {
				t.Fatalf("log output %q does not contain %q", buf.String(), tc.want)
			}
		})
	}
}
