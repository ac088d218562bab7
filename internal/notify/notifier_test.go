package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	name string
	sent []string
	err  error
}

func (s *stubSender) Send(_ context.Context, title, _ string) error {
	s.sent = append(s.sent, title)
	return s.err
}

func (s *stubSender) Name() string { return s.name }

func TestNotifierEventFilter(t *testing.T) {
	sender := &stubSender{name: "stub"}
	n := NewNotifier([]Sender{sender}, []string{"order_submitted"}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, n.Notify(context.Background(), "order_submitted", "Submitted", "x"))
	require.NoError(t, n.Notify(context.Background(), "fee_report", "Cost", "x"))

	assert.Equal(t, []string{"Submitted"}, sender.sent, "filtered events must not be delivered")
}

func TestNotifierEmptyEventListAllowsEverything(t *testing.T) {
	sender := &stubSender{name: "stub"}
	n := NewNotifier([]Sender{sender}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, n.Notify(context.Background(), "anything", "A", "x"))
	assert.Len(t, sender.sent, 1)
}

func TestNotifierCollectsSenderFailures(t *testing.T) {
	good := &stubSender{name: "good"}
	bad := &stubSender{name: "bad", err: errors.New("rate limited")}
	n := NewNotifier([]Sender{bad, good}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := n.Notify(context.Background(), "order_submitted", "Submitted", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: rate limited")
	assert.Len(t, good.sent, 1, "one failed channel must not block the others")
}

func TestDiscordSender(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	s := NewDiscordSender(server.URL)
	require.NoError(t, s.Send(context.Background(), "Order submitted", "AAPL buy"))
	assert.Equal(t, "**Order submitted**\nAAPL buy", body["content"])
}

func TestDiscordSenderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := NewDiscordSender(server.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
