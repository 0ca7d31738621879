package ingestion

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSSourceConfig configures WebSocket feed behavior.
type WSSourceConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket feed configuration.
func DefaultWSConfig() WSSourceConfig {
	return WSSourceConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// WSSource consumes events from a WebSocket feed. Each message is one
// JSON-encoded Event. The connection is re-established with exponential
// backoff on failure.
type WSSource struct {
	endpoint string
	config   WSSourceConfig
	logger   zerolog.Logger
}

// NewWSSource creates a WebSocket event source for the given endpoint.
func NewWSSource(endpoint string, config *WSSourceConfig, logger zerolog.Logger) *WSSource {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	return &WSSource{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger.With().Str("source", "websocket").Logger(),
	}
}

// Name implements Source.
func (s *WSSource) Name() string { return "websocket" }

// Subscribe implements Source. A goroutine owns the connection lifecycle;
// the returned channel is closed when the context is cancelled.
func (s *WSSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	eventsCh := make(chan Event, 100)

	go func() {
		defer close(eventsCh)

		delay := s.config.ReconnectDelay
		for {
			if ctx.Err() != nil {
				return
			}

			conn, err := s.dial(ctx)
			if err != nil {
				s.logger.Error().Err(err).Dur("retry_in", delay).Msg("dial failed")
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
				delay = min(delay*2, s.config.MaxReconnectDelay)
				continue
			}
			delay = s.config.ReconnectDelay

			s.readConn(ctx, conn, eventsCh)
			conn.Close()
		}
	}()

	return eventsCh, nil
}

func (s *WSSource) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: s.config.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("endpoint", s.endpoint).Msg("feed connected")
	return conn, nil
}

// readConn reads events until the connection breaks or ctx is done.
func (s *WSSource) readConn(ctx context.Context, conn *websocket.Conn, eventsCh chan<- Event) {
	// Unblock ReadJSON when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if s.config.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		}

		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("read failed, reconnecting")
			}
			return
		}

		if event.Kind != KindSale && event.Kind != KindOrder {
			s.logger.Warn().Str("kind", string(event.Kind)).Msg("unknown event kind")
			continue
		}

		select {
		case eventsCh <- event:
		case <-ctx.Done():
			return
		}
	}
}
