package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager manages the websocket clients watching the countdown
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig

	broadcastCh chan *CountdownEvent
}

// Connection represents a websocket connection to a client
type Connection struct {
	ID       string
	ClientID string
	Conn     *websocket.Conn
	Send     chan []byte
	Manager  *ConnectionManager

	ConnectedAt time.Time

	// syncSeq is the sequence of the StateSync this connection started from.
	syncSeq uint64
}

// ConnectionConfig holds configuration for websocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default websocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  64,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	if config.SendBufferSize <= 0 {
		config.SendBufferSize = 64
	}
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan *CountdownEvent, 256),
	}
}

// Start processes broadcasts until ctx is cancelled, then closes every connection.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("connection manager started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case event := <-cm.broadcastCh:
			cm.handleBroadcast(event)
		}
	}
}

// UpgradeConnection upgrades an HTTP connection to websocket. stateSync, when set,
// builds the StateSync queued ahead of every broadcast the client receives.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, clientID string, stateSync func() (*CountdownEvent, error)) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}

	if err := cm.registerConnection(connection, stateSync); err != nil {
		conn.Close()
		return err
	}

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Str("client_id", clientID).
		Msg("websocket connection established")

	return nil
}

// registerConnection queues the StateSync and adds conn under the write lock.
// No broadcast runs in between, and queued events up to the sync sequence are
// skipped for conn, so nothing older than the snapshot reaches the client.
func (cm *ConnectionManager) registerConnection(conn *Connection, stateSync func() (*CountdownEvent, error)) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if stateSync != nil {
		initial, err := stateSync()
		if err != nil {
			return fmt.Errorf("failed to build state sync: %w", err)
		}
		data, err := json.Marshal(initial)
		if err != nil {
			return fmt.Errorf("failed to marshal state sync: %w", err)
		}
		conn.syncSeq = initial.Seq
		conn.Send <- data
	}

	cm.connections[conn] = true

	log.Debug().
		Str("connection_id", conn.ID).
		Int("total_connections", len(cm.connections)).
		Uint64("sync_seq", conn.syncSeq).
		Msg("connection registered")
	return nil
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.connections[conn]; exists {
		delete(cm.connections, conn)
		close(conn.Send)

		log.Info().
			Str("connection_id", conn.ID).
			Str("client_id", conn.ClientID).
			Msg("connection unregistered")
	}
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.RLock()
	var all []*Connection
	for conn := range cm.connections {
		all = append(all, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range all {
		cm.unregisterConnection(conn)
	}
}

// Broadcast queues an event for every connection. It never blocks.
func (cm *ConnectionManager) Broadcast(event *CountdownEvent) {
	select {
	case cm.broadcastCh <- event:
	default:
		log.Warn().Str("event_type", string(event.Type)).Msg("broadcast channel full, dropping message")
	}
}

func (cm *ConnectionManager) handleBroadcast(event *CountdownEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// Sends happen under the read lock so unregister cannot close a channel mid-send.
	var slow []*Connection
	delivered := 0
	cm.mu.RLock()
	for conn := range cm.connections {
		if conn.covers(event) {
			continue
		}
		select {
		case conn.Send <- eventData:
			delivered++
		default:
			slow = append(slow, conn)
		}
	}
	cm.mu.RUnlock()

	for _, conn := range slow {
		log.Warn().
			Str("connection_id", conn.ID).
			Str("client_id", conn.ClientID).
			Msg("connection send buffer full, closing connection")
		cm.unregisterConnection(conn)
	}

	if delivered > 0 {
		log.Debug().
			Str("event_type", string(event.Type)).
			Int("connections", delivered).
			Msg("event broadcasted")
	}
}

// covers reports whether the connection's StateSync already includes event.
func (c *Connection) covers(event *CountdownEvent) bool {
	return event.Seq != 0 && event.Seq <= c.syncSeq
}

// ConnectionCount returns the number of open websocket clients.
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	Clients          map[string]int `json:"clients"`
}

func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		TotalConnections: len(cm.connections),
		Clients:          make(map[string]int),
	}
	for conn := range cm.connections {
		stats.Clients[conn.ClientID]++
	}
	return stats
}

// writePump sends queued events and pings. It owns every write to the socket.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

// readPump keeps the read deadline alive and detects closed clients.
// Clients have nothing to send; messages are logged and dropped.
func (c *Connection) readPump() {
	defer c.Manager.unregisterConnection(c)

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close error")
			}
			return
		}

		log.Debug().
			Str("connection_id", c.ID).
			Int("bytes", len(message)).
			Msg("ignoring client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
