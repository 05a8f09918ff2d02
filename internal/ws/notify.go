package ws

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// TreeUpdatedEvent tells connected clients the global tree changed and
// they should refetch it.
type TreeUpdatedEvent struct {
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyTreeUpdated broadcasts a tree_updated event on the default hub.
// Safe to call before SetDefaultHub; it is then a no-op.
func NotifyTreeUpdated(reason string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "merge"
	}

	evt := TreeUpdatedEvent{
		Type:      "tree_updated",
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
