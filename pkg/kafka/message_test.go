package kafka

import (
	"context"
	"errors"
	"testing"
)

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("res-1").
		WithValue(map[string]string{"status": "CONFIRMED"}).
		WithEventType("reservation.status_changed").
		WithCorrelationID("req-9").
		WithSource("reservations").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if msg.Key != "res-1" {
		t.Errorf("Key = %q", msg.Key)
	}
	if msg.GetEventID() == "" {
		t.Error("event id should be generated")
	}
	if msg.GetEventType() != "reservation.status_changed" || msg.GetCorrelationID() != "req-9" {
		t.Errorf("headers = %v", msg.Headers)
	}
	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["status"] != "CONFIRMED" {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}
}

func TestMessageBuilder_EncodeFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if ClassifyError(err) != ErrorTypePermanent {
		t.Errorf("encode failure should be permanent, got %v", err)
	}
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for range 12 {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		retries int
		want    bool
	}{
		{"nil", nil, 0, false},
		{"timeout is transient", errors.New("dial tcp: i/o Timeout"), 0, true},
		{"explicit transient", NewTransientError("broker busy", nil), 1, true},
		{"retries exhausted", NewTransientError("broker busy", nil), 3, false},
		{"unknown is permanent", errors.New("bad payload"), 0, false},
		{"explicit permanent", NewPermanentError("decode", context.Canceled), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err, tt.retries, 3); got != tt.want {
				t.Errorf("ShouldRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsumerProcess_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries: 3,
		log:        testLogger(),
	}
	handler := func(ctx context.Context, msg Message) error {
		calls++
		if calls < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}

	err := c.process(context.Background(), handler, Message{Headers: map[string]string{}})
	if err != nil {
		t.Fatalf("process() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("handler called %d times, want 3", calls)
	}
}

func TestConsumerProcess_PermanentNotRetried(t *testing.T) {
	calls := 0
	c := &Consumer{maxRetries: 3, log: testLogger()}
	handler := func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("decode", nil)
	}

	if err := c.process(context.Background(), handler, Message{Headers: map[string]string{}}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}
