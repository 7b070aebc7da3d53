package monitor

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// StreamServer serves the broadcast log as a websocket feed. Each connected
// client receives every committed entry batch as a JSON array.
type StreamServer struct {
	log      log.Logger
	source   *Collector
	upgrader websocket.Upgrader
}

var _ http.Handler = (*StreamServer)(nil)

func NewStreamServer(logger log.Logger, source *Collector) *StreamServer {
	if logger == nil {
		logger = log.Root()
	}
	return &StreamServer{
		log:    logger,
		source: source,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *StreamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	batches, cancel := s.source.Subscribe()
	defer cancel()

	// We never expect client data, but reading is what surfaces the close
	// frame. The goroutine unblocks the write loop by cancelling the
	// subscription.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Debug("Stream subscriber connected", "remote", r.RemoteAddr)
	for {
		select {
		case batch, ok := <-batches:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(batch); err != nil {
				s.log.Debug("Stream subscriber write failed", "remote", r.RemoteAddr, "err", err)
				return
			}
		case <-closed:
			s.log.Debug("Stream subscriber disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}
