package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeItemCreated MessageType = "item_created"
	TypeItemUpdated MessageType = "item_updated"
	TypeItemDeleted MessageType = "item_deleted"
)

// Message is the envelope every change-feed frame travels in.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
