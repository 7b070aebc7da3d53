package monitor

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/Treymsby/eth-network/host"
	"github.com/Treymsby/eth-network/testlog"
)

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	return conn
}

func TestStreamServerDeliversBatches(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	c := NewCollector(CollectorConfig{Log: logger})
	defer c.Stop()

	srv := httptest.NewServer(NewStreamServer(logger, c))
	defer srv.Close()

	conn := dialStream(t, srv)
	defer conn.Close()

	// The handler subscribes after the upgrade; wait for it before
	// publishing so the batch is not published into the void.
	require.Eventually(t, func() bool {
		return c.SubscriberCount() == 1
	}, time.Second, time.Millisecond)

	c.Publish([]host.LogEntry{pingEntry(0, 16), pingEntry(1, 16)})

	var got []host.LogEntry
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	require.Len(t, got, 2)
	require.Equal(t, uint64(0), got[0].Index)
	require.Equal(t, uint64(1), got[1].Index)
	require.Len(t, got[0].Data, 16)
}

func TestStreamServerServesMultipleClients(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	c := NewCollector(CollectorConfig{Log: logger})
	defer c.Stop()

	srv := httptest.NewServer(NewStreamServer(logger, c))
	defer srv.Close()

	first := dialStream(t, srv)
	defer first.Close()
	second := dialStream(t, srv)
	defer second.Close()

	require.Eventually(t, func() bool {
		return c.SubscriberCount() == 2
	}, time.Second, time.Millisecond)

	c.Publish([]host.LogEntry{pingEntry(7, 4)})

	for _, conn := range []*websocket.Conn{first, second} {
		var got []host.LogEntry
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		require.NoError(t, conn.ReadJSON(&got))
		require.Equal(t, uint64(7), got[0].Index)
	}
}

func TestStreamServerUnsubscribesOnClose(t *testing.T) {
	logger := testlog.Logger(t, log.LevelError)
	c := NewCollector(CollectorConfig{Log: logger})
	defer c.Stop()

	srv := httptest.NewServer(NewStreamServer(logger, c))
	defer srv.Close()

	conn := dialStream(t, srv)
	require.Eventually(t, func() bool {
		return c.SubscriberCount() == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return c.SubscriberCount() == 0
	}, time.Second, time.Millisecond)

	// Publishing after the client left must not block or panic.
	c.Publish([]host.LogEntry{pingEntry(1, 4)})
}
