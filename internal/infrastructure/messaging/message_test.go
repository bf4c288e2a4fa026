package messaging

import (
	"testing"
	"time"
)

func TestMessagePayloadRoundTrip(t *testing.T) {
	type payload struct {
		Model string `json:"model"`
		Chars int    `json:"chars"`
	}
	msg, err := NewMessage("m1", "generation_usage", "user-1", payload{Model: "gpt-4o-mini", Chars: 1200})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	msg.SetMetadata("request_id", "req-1")

	var got payload
	if err := msg.UnmarshalPayload(&got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Model != "gpt-4o-mini" || got.Chars != 1200 {
		t.Errorf("payload = %+v", got)
	}
	if msg.GetMetadata("request_id") != "req-1" {
		t.Errorf("metadata lost: %v", msg.Metadata)
	}
	if msg.GetMetadata("missing") != "" {
		t.Error("missing metadata key must yield empty string")
	}
}

func TestDLQStreamName(t *testing.T) {
	if got := StreamGenerationUsage.DLQStream(); got != "dlq:stream:usage:generation" {
		t.Errorf("DLQStream = %q", got)
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: time.Minute, Multiplier: 2}
	tests := []struct {
		retries int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{10, time.Minute},
	}
	for _, tt := range tests {
		if got := cfg.CalculateBackoff(tt.retries); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retries, got, tt.want)
		}
	}
}
