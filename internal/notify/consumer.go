package notify

import (
	"context"
	"fmt"

	"stopshot/pkg/kafka"
	"stopshot/pkg/model"
)

// Handler returns the consumer side of KafkaSender: it decodes each event and
// hands it to sender. Undecodable payloads are permanent failures so the
// consumer dead-letters them instead of retrying.
func Handler(sender Sender) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.ReservationEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode reservation event", err)
		}
		if event.Reservation.ID == "" {
			return kafka.NewPermanentError("reservation event without reservation id", fmt.Errorf("event %s", msg.GetEventID()))
		}
		return sender.Send(ctx, event)
	}
}
