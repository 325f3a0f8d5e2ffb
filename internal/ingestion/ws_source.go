package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"location-visits/internal/domain"
	"location-visits/internal/observability"
)

// WSConfig configures live feed WebSocket behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing control messages.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// wsLocationFrame is one live feed message. The feed mirrors the export
// entry shape; timestampMs may be a string or a number.
type wsLocationFrame struct {
	TimestampMs json.RawMessage `json:"timestampMs"`
	LatitudeE7  int64           `json:"latitudeE7"`
	LongitudeE7 int64           `json:"longitudeE7"`
	Accuracy    int             `json:"accuracy"`
}

// WSPointSource streams raw locations from a WebSocket feed with
// automatic reconnect.
type WSPointSource struct {
	endpoint string
	config   WSConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
}

var _ LiveSource = (*WSPointSource)(nil)

// NewWSPointSource creates a live location source for the endpoint.
func NewWSPointSource(endpoint string, config *WSConfig) *WSPointSource {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	return &WSPointSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   log.New(os.Stdout, "[ws-points] ", log.LstdFlags|log.Lshortfile),
	}
}

// Subscribe connects and returns a channel of raw locations. The channel
// is closed when the context is cancelled. Connection drops are handled
// internally with exponential backoff; malformed frames are skipped.
func (s *WSPointSource) Subscribe(ctx context.Context) (<-chan domain.RawLocation, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	// Buffer absorbs bursts; blocking send ensures no sample loss.
	pointsCh := make(chan domain.RawLocation, 100)

	// Tear down the connection on cancel so a blocked read returns.
	go func() {
		<-ctx.Done()
		s.closeConn()
	}()

	go s.readLoop(ctx, pointsCh)
	go s.pingLoop(ctx)

	return pointsCh, nil
}

// connect establishes the WebSocket connection.
func (s *WSPointSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", s.endpoint, err)
	}

	s.conn = conn
	s.logger.Printf("Connected to %s", s.endpoint)
	return nil
}

// readLoop reads frames and forwards parsed samples until the context
// is cancelled, reconnecting on read errors.
func (s *WSPointSource) readLoop(ctx context.Context, pointsCh chan<- domain.RawLocation) {
	defer close(pointsCh)
	defer s.closeConn()

	reconnectDelay := s.config.ReconnectDelay

	for ctx.Err() == nil {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			if err := s.reconnect(ctx, reconnectDelay); err != nil {
				reconnectDelay = nextDelay(reconnectDelay, s.config.MaxReconnectDelay)
			}
			continue
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Printf("Read error, reconnecting in %v: %v", reconnectDelay, err)
			s.closeConn()
			reconnectDelay = nextDelay(reconnectDelay, s.config.MaxReconnectDelay)
			continue
		}

		// Reset delay on successful read.
		reconnectDelay = s.config.ReconnectDelay

		var frame wsLocationFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			s.logger.Printf("Skipping malformed frame: %v", err)
			observability.RecordPointsDropped("malformed", 1)
			continue
		}
		ts, ok := timestampString(frame.TimestampMs)
		if !ok {
			s.logger.Printf("Skipping frame without timestamp")
			observability.RecordPointsDropped("no_timestamp", 1)
			continue
		}

		point := domain.RawLocation{
			TimestampMs: ts,
			LatitudeE7:  frame.LatitudeE7,
			LongitudeE7: frame.LongitudeE7,
			Accuracy:    frame.Accuracy,
		}

		select {
		case pointsCh <- point:
		case <-ctx.Done():
			return
		}
	}
}

// reconnect waits for the backoff delay, then dials again.
func (s *WSPointSource) reconnect(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
	}
	observability.DefaultMetrics.FeedReconnects.Inc()
	return s.connect(ctx)
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (s *WSPointSource) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			s.connMu.Unlock()
		}
	}
}

// closeConn tears down the current connection if any.
func (s *WSPointSource) closeConn() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
		s.conn = nil
	}
}

// nextDelay doubles the backoff delay up to the configured maximum.
func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
