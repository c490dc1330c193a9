package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/stretchr/testify/require"
)

// startServer поднимает http.Server на свободном порту с теми же обработчиками,
// что и у SSE-стрима и обычного долгого запроса.
func startServer(t *testing.T, broker *session.Broker, release <-chan struct{}) (*http.Server, string, <-chan struct{}) {
	t.Helper()

	started := make(chan struct{}, 2)

	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release

		if err := r.Context().Err(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		sub, err := broker.SubscribeContext(r.Context(), session.ForUser(uuid.New()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = http.NewResponseController(w).Flush()
		started <- struct{}{}

		for range sub.Events() {
		}
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
	go func() { _ = srv.Serve(ln) }()

	return srv, "http://" + ln.Addr().String(), started
}

func waitStarted(t *testing.T, started <-chan struct{}, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not start")
		}
	}
}

func TestStopHTTP_DrainsRequestsAndEndsStreams(t *testing.T) {
	broker := session.NewBroker(4)
	release := make(chan struct{})
	srv, base, started := startServer(t, broker, release)

	slowStatus := make(chan int, 1)
	go func() {
		resp, err := http.Get(base + "/slow")
		if err != nil {
			slowStatus <- -1
			return
		}
		_ = resp.Body.Close()
		slowStatus <- resp.StatusCode
	}()

	stream, err := http.Get(base + "/stream")
	require.NoError(t, err)
	defer stream.Body.Close()

	waitStarted(t, started, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- stopHTTP(ctx, srv, broker) }()

	// Брокер закрыт: стрим завершается сам, без отмены контекста запроса.
	_, err = io.ReadAll(stream.Body)
	require.NoError(t, err)

	// Обычный запрос дорабатывает до конца с живым контекстом.
	close(release)
	select {
	case st := <-slowStatus:
		require.Equal(t, http.StatusNoContent, st)
	case <-time.After(2 * time.Second):
		t.Fatal("slow request did not finish")
	}

	require.NoError(t, <-stopped)
}

func TestStopHTTP_ForcesCloseAfterDeadline(t *testing.T) {
	broker := session.NewBroker(4)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	srv, base, started := startServer(t, broker, release)

	go func() {
		if resp, err := http.Get(base + "/slow"); err == nil {
			_ = resp.Body.Close()
		}
	}()
	waitStarted(t, started, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := stopHTTP(ctx, srv, broker)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = broker.Subscribe(nil)
	require.ErrorIs(t, err, session.ErrClosed)
}
