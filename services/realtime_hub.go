package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	MemberID uint
	Conn     *websocket.Conn
}

// RealtimeHub fans ledger events (meal logged, day archived) out to a
// member's open portal sessions. Best-effort: a failed write just
// means that session misses the event.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.MemberID] == nil {
		h.clients[c.MemberID] = make(map[*WSClient]struct{})
	}
	h.clients[c.MemberID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.MemberID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.MemberID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Broadcast(memberID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[memberID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
