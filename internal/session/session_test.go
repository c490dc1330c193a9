package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, sub *Subscription) Event {
	t.Helper()

	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "канал закрыт раньше времени")
		return ev
	case <-time.After(time.Second):
		t.Fatal("событие не пришло")
	}

	return Event{}
}

func TestBroker_PublishToFilteredSubscribers(t *testing.T) {
	b := NewBroker(4)
	alice, bob := uuid.New(), uuid.New()

	all, err := b.Subscribe(nil)
	require.NoError(t, err)
	defer all.Unsubscribe()

	onlyAlice, err := b.Subscribe(ForUser(alice))
	require.NoError(t, err)
	defer onlyAlice.Unsubscribe()

	b.Publish(context.Background(), Event{Kind: SignedIn, UserID: bob})
	b.Publish(context.Background(), Event{Kind: SignedOut, UserID: alice})

	require.Equal(t, bob, recv(t, all).UserID)
	require.Equal(t, alice, recv(t, all).UserID)

	ev := recv(t, onlyAlice)
	require.Equal(t, SignedOut, ev.Kind)
	require.False(t, ev.At.IsZero(), "At проставляется при публикации")
	require.Len(t, onlyAlice.Events(), 0)
}

func TestSubscription_UnsubscribeIdempotent(t *testing.T) {
	b := NewBroker(1)
	sub, err := b.Subscribe(nil)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	require.Equal(t, 0, b.Len())
	_, ok := <-sub.Events()
	require.False(t, ok, "канал закрыт после отписки")

	// Публикация после отписки не паникует.
	b.Publish(context.Background(), Event{Kind: SignedIn})
}

// Подписка, привязанная к контексту, снимается при его отмене.
func TestSubscribeContext_DisposedOnCancel(t *testing.T) {
	b := NewBroker(1)
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := b.SubscribeContext(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())

	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("подписка не снята после отмены контекста")
	}
	require.Equal(t, 0, b.Len())
}

func TestSubscribeContext_ManualUnsubscribeStopsWatcher(t *testing.T) {
	b := NewBroker(1)

	sub, err := b.SubscribeContext(context.Background(), nil)
	require.NoError(t, err)

	sub.Unsubscribe()
	<-sub.Done()
	require.Equal(t, 0, b.Len())
}

// Переполненный буфер: старое событие вытесняется, публикация не блокируется.
func TestBroker_SlowSubscriberDropsOldest(t *testing.T) {
	b := NewBroker(2)
	sub, err := b.Subscribe(nil)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		b.Publish(context.Background(), Event{Kind: SignedUp})
		b.Publish(context.Background(), Event{Kind: SignedIn})
		b.Publish(context.Background(), Event{Kind: TokenRefreshed})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish заблокировался")
	}

	require.Equal(t, SignedIn, recv(t, sub).Kind)
	require.Equal(t, TokenRefreshed, recv(t, sub).Kind)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(1)
	sub, err := b.Subscribe(nil)
	require.NoError(t, err)

	b.Close()
	b.Close()

	<-sub.Done()
	_, err = b.Subscribe(nil)
	require.ErrorIs(t, err, ErrClosed)

	_, err = b.SubscribeContext(context.Background(), nil)
	require.ErrorIs(t, err, ErrClosed)
}
