package events

import (
	"context"

	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// ForwardSessions пересылает события сессий из брокера в Publisher до отмены ctx
// или закрытия брокера. Подписка освобождается при выходе.
func ForwardSessions(ctx context.Context, broker *session.Broker, pub Publisher) error {
	sub, err := broker.SubscribeContext(ctx, nil)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	lg := log.From(ctx).With("op", "events/ForwardSessions")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}

			err := pub.Publish(ctx, Event{
				Type:       SessionChanged,
				At:         ev.At,
				ActorID:    ev.UserID,
				EntityType: "user",
				EntityID:   ev.UserID.String(),
				Data:       map[string]any{"kind": string(ev.Kind)},
			})
			if err != nil {
				lg.Warn("session_event_publish_failed", "kind", ev.Kind, "err", err)
			}
		}
	}
}
