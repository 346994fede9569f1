package server

import (
	"bytes"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/hoverrun/internal/core/observability/log"
	"github.com/zeusync/hoverrun/pkg/generic"
)

var buffers = generic.NewHotPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset, 4)

// spectator is one connected websocket reader.
type spectator struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *spectator) close() {
	s.once.Do(func() { close(s.send) })
}

// HubMetrics are cumulative broadcast counters.
type HubMetrics struct {
	Spectators int
	Broadcasts uint64
	Dropped    uint64
}

// Hub fans encoded frames out to every spectator. Broadcast never blocks on
// a slow reader: frames that do not fit its queue are dropped.
type Hub struct {
	mu         sync.RWMutex
	spectators map[string]*spectator
	buffer     int
	timeout    time.Duration
	logger     log.Log

	broadcasts atomic.Uint64
	dropped    atomic.Uint64
}

func NewHub(buffer int, writeTimeout time.Duration, logger log.Log) *Hub {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Hub{
		spectators: make(map[string]*spectator),
		buffer:     buffer,
		timeout:    writeTimeout,
		logger:     logger,
	}
}

// Broadcast encodes v as JSON once and queues it for every spectator.
func (h *Hub) Broadcast(v any) error {
	buf := buffers.Get()
	defer buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		return err
	}
	frame := bytes.Clone(bytes.TrimRight(buf.Bytes(), "\n"))

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.broadcasts.Add(1)
	for _, s := range h.spectators {
		select {
		case s.send <- frame:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

func (h *Hub) Metrics() HubMetrics {
	h.mu.RLock()
	n := len(h.spectators)
	h.mu.RUnlock()
	return HubMetrics{Spectators: n, Broadcasts: h.broadcasts.Load(), Dropped: h.dropped.Load()}
}

// Attach registers conn and serves it until the peer goes away.
func (h *Hub) Attach(conn *websocket.Conn) {
	s := &spectator{id: uuid.NewString(), conn: conn, send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.spectators[s.id] = s
	h.mu.Unlock()
	h.logger.Info("spectator connected", log.String("spectator", s.id), log.String("remote_addr", conn.RemoteAddr().String()))

	go h.writeLoop(s)
	h.readLoop(s)
}

// readLoop only watches for the peer closing; spectators send nothing.
func (h *Hub) readLoop(s *spectator) {
	defer h.detach(s)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(s *spectator) {
	defer func() { _ = s.conn.Close() }()
	for frame := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(h.timeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.logger.Debug("spectator write failed", log.String("spectator", s.id), log.Err(err))
			return
		}
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(h.timeout))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"))
}

func (h *Hub) detach(s *spectator) {
	h.mu.Lock()
	_, ok := h.spectators[s.id]
	delete(h.spectators, s.id)
	h.mu.Unlock()
	if ok {
		s.close()
		h.logger.Info("spectator disconnected", log.String("spectator", s.id))
	}
}

// CloseAll disconnects every spectator.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.spectators
	h.spectators = make(map[string]*spectator)
	h.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
